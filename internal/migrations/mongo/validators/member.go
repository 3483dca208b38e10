package validators

import "go.mongodb.org/mongo-driver/bson"

var MemberValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"member_no", "email", "username", "role", "status", "created_at"},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},
			"member_no": bson.M{
				"bsonType":  "string",
				"minLength": 36,
				"maxLength": 36,
			},
			"email": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 254,
			},
			"username": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 50,
			},
			"role": bson.M{
				"bsonType": "string",
				"enum":     []string{"agent", "client"},
			},
			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"active", "pending", "suspended"},
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var AgentValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"member_id", "license_number", "verification_status", "created_at"},
		"additionalProperties": true,

		"properties": bson.M{
			"member_id": objectIDString,
			"license_number": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 50,
			},
			"verification_status": bson.M{
				"bsonType": "string",
				"enum":     []string{"pending", "verified", "rejected"},
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var ClientValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"member_id", "created_at"},
		"additionalProperties": true,

		"properties": bson.M{
			"member_id": objectIDString,
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
