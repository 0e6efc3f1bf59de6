package gateway

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"railcross"
)

// LoginInput is the credentials form. Validation failures are resolved at the
// form and never reach the wire.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupInput is the registration form. ConfirmPassword stays client-side.
type SignupInput struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"-" validate:"eqfield=Password"`
	Role            string `json:"role" validate:"required,oneof='Government' 'Railway Officer'"`
}

// AuthGateway wraps the login and signup exchanges.
type AuthGateway struct {
	client   *Client
	validate *validator.Validate
}

func NewAuthGateway(client *Client) *AuthGateway {
	return &AuthGateway{client: client, validate: validator.New()}
}

// Login exchanges credentials for a session. The returned session carries the
// token and all four profile fields together.
func (g *AuthGateway) Login(ctx context.Context, in LoginInput) (railcross.Session, error) {
	if err := g.validate.Struct(in); err != nil {
		return railcross.Session{}, &Failure{Category: CategoryValidation, Message: validationMessage(err)}
	}

	var resp struct {
		Token string `json:"token"`
		User  struct {
			Name    string `json:"name"`
			Email   string `json:"email"`
			Role    string `json:"role"`
			BadgeID string `json:"badgeId"`
		} `json:"user"`
	}
	if err := g.client.do(ctx, http.MethodPost, "/login", in, &resp, false); err != nil {
		return railcross.Session{}, err
	}
	return railcross.Session{
		Token:   resp.Token,
		Name:    resp.User.Name,
		Email:   resp.User.Email,
		Role:    resp.User.Role,
		BadgeID: resp.User.BadgeID,
	}, nil
}

// Signup registers a new account. The password mismatch check runs first so
// its message wins over field-level complaints.
func (g *AuthGateway) Signup(ctx context.Context, in SignupInput) error {
	if in.Password != in.ConfirmPassword {
		return &Failure{Category: CategoryValidation, Message: "Passwords do not match!"}
	}
	if err := g.validate.Struct(in); err != nil {
		return &Failure{Category: CategoryValidation, Message: validationMessage(err)}
	}
	return g.client.do(ctx, http.MethodPost, "/signup", in, nil, false)
}

// validationMessage folds the first field error into the inline text shown
// next to the form.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid input."
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return strings.ToLower(fe.Field()) + " is required"
	case "email":
		return "Invalid email address."
	case "min":
		return "Password must be at least " + fe.Param() + " characters."
	case "eqfield":
		return "Passwords do not match!"
	case "oneof":
		return "Please select a role."
	default:
		return "Invalid " + strings.ToLower(fe.Field()) + "."
	}
}
