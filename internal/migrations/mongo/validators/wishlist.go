package validators

import "go.mongodb.org/mongo-driver/bson"

var WishlistValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"wishlist_no", "client_id", "property_id", "added_date"},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},
			"wishlist_no": bson.M{
				"bsonType":  "string",
				"minLength": 36,
				"maxLength": 36,
			},
			"client_id":   objectIDString,
			"property_id": objectIDString,
			"added_date": bson.M{
				"bsonType": "date",
			},
			"notes": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},
		},
	},
}
