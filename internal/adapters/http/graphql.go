package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/RichBen03/SafeRoute/internal/core/domain"
	"github.com/RichBen03/SafeRoute/internal/core/usecases"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	coordinateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Coordinate",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lng": &graphql.Field{Type: graphql.Float},
		},
	})

	serviceType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Service",
		Fields: graphql.Fields{
			"id":             &graphql.Field{Type: graphql.String},
			"name":           &graphql.Field{Type: graphql.String},
			"type":           &graphql.Field{Type: graphql.String},
			"address":        &graphql.Field{Type: graphql.String},
			"location":       &graphql.Field{Type: coordinateType},
			"contact_number": &graphql.Field{Type: graphql.String},
			"rating":         &graphql.Field{Type: graphql.Float},
		},
	})

	serviceMatchType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ServiceMatch",
		Fields: graphql.Fields{
			"service":     &graphql.Field{Type: serviceType},
			"distance_km": &graphql.Field{Type: graphql.Float},
		},
	})

	geocodeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeocodeResult",
		Fields: graphql.Fields{
			"location":     &graphql.Field{Type: coordinateType},
			"display_name": &graphql.Field{Type: graphql.String},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"services": &graphql.Field{
				Type:        graphql.NewList(serviceType),
				Description: "List registered services, optionally by type",
				Args: graphql.FieldConfigArgument{
					"type": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Registry.List(p.Context, p.Args["type"].(string))
				},
			},
			"service": &graphql.Field{
				Type:        serviceType,
				Description: "Get a service by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Registry.Get(p.Context, p.Args["id"].(string))
				},
			},
			"servicesNearby": &graphql.Field{
				Type:        graphql.NewList(serviceMatchType),
				Description: "Find services near a location, closest first",
				Args: graphql.FieldConfigArgument{
					"lat":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"lng":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius_km": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: float64(usecases.DefaultSearchRadiusKm)},
					"type":      &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
					"user_id":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					center := domain.Coordinate{
						Lat: p.Args["lat"].(float64),
						Lng: p.Args["lng"].(float64),
					}
					entry, err := deps.Search.Nearby(p.Context, p.Args["user_id"].(string),
						center, p.Args["radius_km"].(float64), p.Args["type"].(string), "")
					if err != nil {
						return nil, err
					}
					return entry.Results, nil
				},
			},
			"geocode": &graphql.Field{
				Type:        geocodeType,
				Description: "Resolve a free-text address to coordinates",
				Args: graphql.FieldConfigArgument{
					"address": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Geocode.Resolve(p.Context, p.Args["address"].(string))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
