package validators

import "go.mongodb.org/mongo-driver/bson"

var ListingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"owner_id",
			"title",
			"address",
			"city",
			"monthly_price",
			"bedrooms",
			"bathrooms",
			"lease_months",
			"total_slots",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"owner_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 120,
			},

			"address": bson.M{
				"bsonType":  "string",
				"minLength": 5,
				"maxLength": 200,
			},

			"city": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 60,
			},

			"country": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 2,
			},

			"monthly_price": bson.M{
				"bsonType": "long",
				"minimum":  1,
			},

			"currency": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 3,
			},

			"bedrooms": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  20,
			},

			"bathrooms": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  20,
			},

			"furnished": bson.M{
				"bsonType": "bool",
			},

			"lease_months": bson.M{
				"bsonType": "int",
				"minimum":  1,
				"maximum":  36,
			},

			"requirements": bson.M{
				"bsonType":  "string",
				"maxLength": 2000,
			},

			"photo_urls": bson.M{
				"bsonType": "array",
				"maxItems": 20,
				"items": bson.M{
					"bsonType": "string",
				},
			},

			"contact_phone": bson.M{
				"bsonType": "string",
			},

			"total_slots": bson.M{
				"bsonType": "int",
				"minimum":  1,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
