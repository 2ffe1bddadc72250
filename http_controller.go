package authgate

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// AuthControllerRoutes are the paths the controller mounts.
type AuthControllerRoutes struct {
	Signup  string
	Login   string
	Profile string
}

// AuthController exposes the gate's flows as a JSON API.
type AuthController struct {
	Debug  bool
	Logger Logger
	Gate   Authenticator
	Routes *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Signup:  "/auth/signup",
			Login:   "/auth/login",
			Profile: "/profile",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Gate == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

func WithGate(gate Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Gate = gate
		return c
	}
}

func WithControllerLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// RegisterAuthRoutes mounts signup and login on app, and the profile route
// behind the supplied protection middleware.
func RegisterAuthRoutes(app fiber.Router, controller *AuthController, protected fiber.Handler) {
	app.Post(controller.Routes.Signup, controller.SignupPost)
	app.Post(controller.Routes.Login, controller.LoginPost)
	app.Get(controller.Routes.Profile, protected, controller.ProfileShow)
}

// SignupRequest payload
type SignupRequest struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r SignupRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *AuthController) SignupPost(c *fiber.Ctx) error {
	payload := new(SignupRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("signup parse payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse request body",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Info("signup validate payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":      "invalid signup payload",
			"validation": validationErrorMap(err),
		})
	}

	if a.Debug {
		fmt.Println("======= AUTH SIGNUP ======")
		fmt.Println(print.MaybePrettyJSON(fiber.Map{
			"username": payload.Username,
			"email":    payload.Email,
		}))
		fmt.Println("==========================")
	}

	user, err := a.Gate.Signup(c.UserContext(), payload.Username, payload.Email, payload.Password)
	if err != nil {
		return a.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "user created",
		"user":    user.Public(),
	})
}

func (a *AuthController) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		a.Logger.Error("login parse payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse request body",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Info("login validate payload", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":      "invalid login payload",
			"validation": validationErrorMap(err),
		})
	}

	token, err := a.Gate.Login(c.UserContext(), payload.Email, payload.Password)
	if err != nil {
		return a.respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "login successful",
		"token":   token,
	})
}

// ProfileShow answers from the verified claims alone; no store round trip.
func (a *AuthController) ProfileShow(c *fiber.Ctx) error {
	claims, ok := ClaimsFromFiber(c, "")
	if !ok {
		return AccessDenied(c)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user": fiber.Map{
			"id":    claims.UserID(),
			"email": claims.Email(),
		},
		"expires_at": claims.Expires(),
	})
}

// ClaimsFromFiber extracts the AuthClaims the token middleware stored in
// the request Locals.
func ClaimsFromFiber(c *fiber.Ctx, key string) (AuthClaims, bool) {
	if key == "" {
		key = "user" // Default key used by the token middleware
	}
	raw := c.Locals(key)
	if raw == nil {
		return nil, false
	}
	claims, ok := raw.(AuthClaims)
	return claims, ok
}

// AccessDenied is the single body every token failure collapses into.
func AccessDenied(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error": "access denied",
	})
}

// respondError translates gate errors into the response contract. Login
// failures share one message regardless of cause, token failures collapse
// into access denied, and internal details never reach the body.
func (a *AuthController) respondError(c *fiber.Ctx, err error) error {
	if IsInvalidCredentials(err) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid credentials",
		})
	}

	if IsTokenExpiredError(err) || IsMalformedError(err) || errors.Is(err, ErrTokenMissing) {
		return AccessDenied(c)
	}

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		switch richErr.Category {
		case errors.CategoryValidation, errors.CategoryBadInput, errors.CategoryConflict:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": richErr.Message,
			})
		case errors.CategoryNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": richErr.Message,
			})
		}
	}

	a.Logger.Error("unexpected controller error", "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
	})
}

// validationErrorMap flattens ozzo field errors into a response map.
func validationErrorMap(err error) map[string]string {
	out := map[string]string{}

	if fieldErrs, ok := err.(validation.Errors); ok {
		for field, ferr := range fieldErrs {
			if ferr != nil {
				out[field] = ferr.Error()
			}
		}
		return out
	}

	if err != nil {
		out["_"] = err.Error()
	}
	return out
}
