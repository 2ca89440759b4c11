package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/orchidbooks/storefront/internal/cookies"
	"github.com/orchidbooks/storefront/internal/events"
	"github.com/orchidbooks/storefront/internal/logging"
	"github.com/orchidbooks/storefront/internal/service/auth"
)

var validate = validator.New()

type AuthHandler struct {
	Svc      *auth.Service
	Producer *events.Producer
}

type signInRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type signUpRequest struct {
	Name            string `json:"name"             validate:"required,min=2"`
	Email           string `json:"email"            validate:"required,email"`
	Password        string `json:"password"         validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// fieldErrors turns validator output into the field-level message map
// the clients render next to inputs.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["request"] = "invalid request body"
		return out
	}
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			out[field] = "is required"
		case "email":
			out[field] = "must be a valid email address"
		case "min":
			out[field] = fmt.Sprintf("must be at least %s characters", fe.Param())
		case "eqfield":
			out[field] = "passwords don't match"
		default:
			out[field] = "is invalid"
		}
	}
	return out
}

func (h *AuthHandler) SignUp(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.sign_up")

	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("sign_up_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := validate.Struct(&req); err != nil {
		l.Warn("sign_up_failed", "status", 422, "reason", "validation")
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": fieldErrors(err)})
	}

	user, err := h.Svc.SignUp(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			l.Warn("sign_up_failed", "status", 409, "reason", "email taken")
			return echo.NewHTTPError(http.StatusConflict, "email already registered")
		}
		l.Error("sign_up_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot create account")
	}

	h.publishUserEvent(c, map[string]any{
		"type":    "user_registered",
		"user_id": user.ID,
		"email":   user.Email,
	})

	l.Info("sign_up_success", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) SignIn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.sign_in")

	var req signInRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("sign_in_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := validate.Struct(&req); err != nil {
		l.Warn("sign_in_failed", "status", 422, "reason", "validation")
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": fieldErrors(err)})
	}

	user, pair, err := h.Svc.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			// one message for unknown email and wrong password
			l.Warn("sign_in_failed", "status", 401, "reason", "invalid credentials")
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		}
		l.Error("sign_in_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot sign in")
	}

	c.SetCookie(cookies.Create(cookies.Access, pair.AccessToken, "/", pair.AccessExp))
	c.SetCookie(cookies.Create(cookies.Refresh, pair.RefreshToken, "/", pair.RefreshExp))

	h.publishUserEvent(c, map[string]any{
		"type":    "user_signed_in",
		"user_id": user.ID,
	})

	l.Info("sign_in_success", "user_id", user.ID, "role", user.Role)
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

func (h *AuthHandler) SignOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.sign_out")

	if rc, err := c.Cookie(cookies.Refresh); err == nil {
		if err := h.Svc.SignOut(ctx, rc.Value); err != nil {
			l.Error("sign_out_failed", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot sign out")
		}
	}

	c.SetCookie(cookies.Delete(cookies.Access, "/"))
	c.SetCookie(cookies.Delete(cookies.Refresh, "/"))

	l.Info("sign_out_success")
	return c.JSON(http.StatusOK, echo.Map{"message": "signed out"})
}

func (h *AuthHandler) publishUserEvent(c echo.Context, event map[string]any) {
	key, _ := event["user_id"].(string)
	if err := h.Producer.Publish(c.Request().Context(), events.TopicUserEvents, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Error("publish user event", "error", err)
	}
}
