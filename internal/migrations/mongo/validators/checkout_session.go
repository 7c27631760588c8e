package validators

import "go.mongodb.org/mongo-driver/bson"

var CheckoutSessionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"commitment_id",
			"slot_id",
			"listing_id",
			"user_id",
			"state",
			"expires_at",
			"price_snapshot",
			"move_in_date",
			"lease_months",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"commitment_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"slot_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"listing_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"user_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"state": bson.M{
				"bsonType": "string",
				"enum": []string{
					"ACTIVE",
					"COMPLETED",
					"CANCELLED",
					"EXPIRED",
				},
			},

			"token": bson.M{
				"bsonType": "string",
			},

			"expires_at": bson.M{
				"bsonType": "date",
			},

			"price_snapshot": bson.M{
				"bsonType": "long",
				"minimum":  1,
			},

			"currency": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 3,
			},

			"move_in_date": bson.M{
				"bsonType": "date",
			},

			"lease_months": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  36,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},

			"closed_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
