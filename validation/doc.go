// Package validation provides struct tag validation backed by
// go-playground/validator.
//
// Field names in messages use the json tag so that a decoded response body
// reports the wire name of the missing field:
//
//	type Repo struct {
//	    Name  string `json:"name" validate:"required"`
//	    Forks *int   `json:"forks_count" validate:"required"`
//	}
//	err := validation.Validate(repo) // "forks_count: is required"
package validation
