package otp

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// OTP is a single-use ticket that lets an already authenticated caller open a
// websocket without a cookie on the upgrade request.
type OTP struct {
	Key       string
	SubjectID uuid.UUID
	Created   time.Time
}

type RetentionMap struct {
	mu     sync.Mutex
	otps   map[string]OTP
	maxAge time.Duration
	now    func() time.Time
}

// NewRetentionMap starts a janitor that drops tickets older than maxAge until
// ctx is done.
func NewRetentionMap(ctx context.Context, maxAge time.Duration) *RetentionMap {
	rm := &RetentionMap{
		otps:   make(map[string]OTP),
		maxAge: maxAge,
		now:    time.Now,
	}
	go rm.retention(ctx, 400*time.Millisecond)
	return rm
}

func (rm *RetentionMap) Add(subjectID uuid.UUID) OTP {
	o := OTP{
		Key:       uuid.NewString(),
		SubjectID: subjectID,
		Created:   rm.now(),
	}

	rm.mu.Lock()
	rm.otps[o.Key] = o
	rm.mu.Unlock()
	return o
}

// Verify consumes the ticket and returns whom it was issued to.
func (rm *RetentionMap) Verify(key string) (uuid.UUID, bool) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	o, ok := rm.otps[key]
	if !ok {
		return uuid.Nil, false
	}
	delete(rm.otps, key)
	if rm.expired(o) {
		return uuid.Nil, false
	}
	return o.SubjectID, true
}

func (rm *RetentionMap) Len() int {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	return len(rm.otps)
}

func (rm *RetentionMap) expired(o OTP) bool {
	return o.Created.Add(rm.maxAge).Before(rm.now())
}

func (rm *RetentionMap) sweep() {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	for key, o := range rm.otps {
		if rm.expired(o) {
			delete(rm.otps, key)
		}
	}
}

func (rm *RetentionMap) retention(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rm.sweep()
		case <-ctx.Done():
			return
		}
	}
}
