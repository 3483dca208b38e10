package validators

import (
	"homeview/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

func scheduleStatuses() []string {
	statuses := make([]string, 0, len(model.ScheduleStatuses))
	for _, s := range model.ScheduleStatuses {
		statuses = append(statuses, string(s))
	}
	return statuses
}

var objectIDString = bson.M{
	"bsonType":  "string",
	"minLength": 24,
	"maxLength": 24,
}

var ScheduleValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"schedule_no",
			"property_id",
			"agent_id",
			"client_id",
			"schedule_time",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"schedule_no": bson.M{
				"bsonType":  "string",
				"minLength": 36,
				"maxLength": 36,
			},

			"property_id": objectIDString,
			"agent_id":    objectIDString,
			"client_id":   objectIDString,

			"schedule_time": bson.M{
				"bsonType": "date",
			},

			"status": bson.M{
				"bsonType": "string",
				"enum":     scheduleStatuses(),
			},

			"notes": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"updated_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
