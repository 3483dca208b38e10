package validators

import (
	"homeview/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

var PropertyValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"property_no",
			"title",
			"type",
			"address",
			"city",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},
			"property_no": bson.M{
				"bsonType":  "string",
				"minLength": 36,
				"maxLength": 36,
			},
			"title": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},
			"type": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 50,
			},
			"price": bson.M{
				"bsonType": []string{"double", "int", "long"},
				"minimum":  0,
			},
			"address": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},
			"city": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},
			"status": bson.M{
				"bsonType": "string",
				"enum":     model.PropertyStatuses,
			},
			"owner_id": objectIDString,
			"agent_id": objectIDString,
			"amenities": bson.M{
				"bsonType": []string{"array", "null"},
				"maxItems": 50,
				"items": bson.M{
					"bsonType":  "string",
					"minLength": 1,
				},
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var PropertyMediaValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"property_id", "url", "created_at"},
		"additionalProperties": true,

		"properties": bson.M{
			"property_id": objectIDString,
			"url": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 2048,
			},
			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
