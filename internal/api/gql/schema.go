package gql

import (
	graphql "github.com/graph-gophers/graphql-go"
)

const schemaString = `
	schema {
		query: Query
		mutation: Mutation
	}

	enum SurveyType {
		A
		B
		C
	}

	type Survey {
		id: ID!
		owner: ID!
		name: String!
		registrationNumber: String!
		gender: String!
		result: String!
		signatureDataUrl: String!
		signedBy: String!
		relationship: String!
		type: SurveyType!
		doctor: String
		operation: String
		createdAt: String!
	}

	type User {
		id: ID!
		email: String!
		username: String
	}

	input SurveyInput {
		name: String!
		registrationNumber: String!
		gender: String!
		result: String!
		signatureDataUrl: String!
		signedBy: String!
		relationship: String!
		type: SurveyType!
		doctor: String
		operation: String
		# Accepted for compatibility; the owner always comes from the session.
		owner: ID
	}

	type Query {
		# createdAt is a date (YYYY-MM-DD) or instant; omitted means today.
		surveys(createdAt: String): [Survey!]!
		survey(id: ID!): Survey
	}

	type Mutation {
		addSurvey(input: SurveyInput!): Survey
		login(email: String!, password: String!): User
		signUp(email: String!, password: String!, username: String): Boolean!
	}
`

const maxDepth = 8

func NewSchema(r *Resolver) (*graphql.Schema, error) {
	return graphql.ParseSchema(schemaString, r, graphql.MaxDepth(maxDepth))
}
