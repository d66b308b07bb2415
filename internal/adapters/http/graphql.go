package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/samirrijal/routedesk/internal/core/domain"
)

// buildSchema creates the read-only GraphQL schema wired to our services.
// Field names follow the JSON tags of the domain types so the default
// resolver can read them.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	coordinateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Coordinate",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lng": &graphql.Field{Type: graphql.Float},
		},
	})

	driverType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Driver",
		Fields: graphql.Fields{
			"id":     &graphql.Field{Type: graphql.String},
			"name":   &graphql.Field{Type: graphql.String},
			"email":  &graphql.Field{Type: graphql.String},
			"phone":  &graphql.Field{Type: graphql.String},
			"center": &graphql.Field{Type: graphql.String},
		},
	})

	orderType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Order",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.String},
			"customer_name": &graphql.Field{Type: graphql.String},
			"address":       &graphql.Field{Type: graphql.String},
			"phone":         &graphql.Field{Type: graphql.String},
			"items":         &graphql.Field{Type: graphql.String},
			"coordinate":    &graphql.Field{Type: coordinateType},
			"driver_id":     &graphql.Field{Type: graphql.String},
			"delivery_date": &graphql.Field{Type: graphql.String},
			"sequence":      &graphql.Field{Type: graphql.Int},
			"status":        &graphql.Field{Type: graphql.String},
		},
	})

	stopType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Stop",
		Fields: graphql.Fields{
			"position":   &graphql.Field{Type: graphql.Int},
			"label":      &graphql.Field{Type: graphql.String},
			"coordinate": &graphql.Field{Type: coordinateType},
			"orders":     &graphql.Field{Type: graphql.NewList(orderType)},
		},
	})

	routeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Route",
		Fields: graphql.Fields{
			"driver_id":  &graphql.Field{Type: graphql.String},
			"date":       &graphql.Field{Type: graphql.String},
			"depot":      &graphql.Field{Type: coordinateType},
			"stops":      &graphql.Field{Type: graphql.NewList(stopType)},
			"unresolved": &graphql.Field{Type: graphql.NewList(orderType)},
			"no_data":    &graphql.Field{Type: graphql.Boolean},
			"revision":   &graphql.Field{Type: graphql.Int},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"drivers": &graphql.Field{
				Type:        graphql.NewList(driverType),
				Description: "Drivers visible to the caller",
				Args: graphql.FieldConfigArgument{
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 50},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 0},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					sess, err := gqlSession(p)
					if err != nil {
						return nil, err
					}
					drivers, _, err := deps.Drivers.List(p.Context, sess, p.Args["limit"].(int), p.Args["offset"].(int))
					return drivers, err
				},
			},
			"route": &graphql.Field{
				Type:        routeType,
				Description: "The caller's route draft for a driver's day, planned on first access",
				Args: graphql.FieldConfigArgument{
					"driverId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"date":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					sess, err := gqlSession(p)
					if err != nil {
						return nil, err
					}
					driverID := p.Args["driverId"].(string)
					date := p.Args["date"].(string)
					route, err := deps.Routes.Current(p.Context, sess, driverID, date)
					if errors.Is(err, domain.ErrNoDraft) {
						return deps.Routes.Plan(p.Context, sess, driverID, date)
					}
					return route, err
				},
			},
			"order": &graphql.Field{
				Type:        orderType,
				Description: "Get an order by ID",
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					sess, err := gqlSession(p)
					if err != nil {
						return nil, err
					}
					return deps.Status.GetOrder(p.Context, sess, p.Args["id"].(string))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

func gqlSession(p graphql.ResolveParams) (domain.Session, error) {
	sess, ok := SessionFromCtx(p.Context)
	if !ok {
		return domain.Session{}, fmt.Errorf("%w: no session", domain.ErrForbidden)
	}
	return sess, nil
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
			return errBadRequest(c, "invalid request body")
		}
		if req.Query == "" {
			return errBadRequest(c, "query is required")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
