package handlers

import (
	"ilimi/internal/repositories"
	"ilimi/internal/services/auth"
	"ilimi/internal/services/registration"
	"ilimi/internal/services/verification"
	"ilimi/internal/utils/response"
	"ilimi/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type RegistrationHandler struct {
	registrationService registration.Service
	verificationService verification.Service
	authService         auth.Service
	userRepo            repositories.UserRepository
}

func NewRegistrationHandler(
	registrationService registration.Service,
	verificationService verification.Service,
	authService auth.Service,
	userRepo repositories.UserRepository,
) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: registrationService,
		verificationService: verificationService,
		authService:         authService,
		userRepo:            userRepo,
	}
}

type registerPayload struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
}

// Register creates an inactive account and sends the verification code.
// Duplicate email/phone are rejected here; the service trusts its input.
func (h *RegistrationHandler) Register(c *fiber.Ctx) error {
	var payload registerPayload
	if err := c.BodyParser(&payload); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if verr := validation.Struct(payload); verr != nil {
		return response.FieldError(c, verr.Field, verr.Message)
	}
	if !validation.IsValidPhone(payload.PhoneNumber) {
		return response.FieldError(c, "phone_number", "Enter a valid phone number.")
	}

	if _, err := h.userRepo.GetByEmail(payload.Email); err == nil {
		return response.FieldError(c, "email", "An account with this email already exists.")
	} else if err != repositories.ErrUserNotFound {
		return response.ServerError(c, "Registration failed")
	}
	if _, err := h.userRepo.GetByPhone(payload.PhoneNumber); err == nil {
		return response.FieldError(c, "phone_number", "An account with this phone number already exists.")
	} else if err != repositories.ErrUserNotFound {
		return response.ServerError(c, "Registration failed")
	}

	user, _, err := h.registrationService.CreateUserAccount(registration.CreateAccountInput{
		Email:       payload.Email,
		Password:    payload.Password,
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		PhoneNumber: payload.PhoneNumber,
	})
	if err != nil {
		return response.ServerError(c, "Registration failed")
	}

	return response.Created(c,
		"Account created. Please check your phone for the verification code.",
		fiber.Map{"phone_number": user.PhoneNumber},
	)
}

type verifyPayload struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	OTPCode     string `json:"otp_code" validate:"required,len=6"`
}

// VerifyOTP checks the submitted code. On success the account is activated
// and a token pair is issued so the client can continue onboarding.
func (h *RegistrationHandler) VerifyOTP(c *fiber.Ctx) error {
	var payload verifyPayload
	if err := c.BodyParser(&payload); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if verr := validation.Struct(payload); verr != nil {
		return response.FieldError(c, verr.Field, verr.Message)
	}

	user, err := h.userRepo.GetByPhone(payload.PhoneNumber)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return response.NotFound(c, "No account found with this phone number.")
		}
		return response.ServerError(c, "Verification failed")
	}

	ok, message, err := h.verificationService.VerifyPhoneOTP(user, payload.OTPCode)
	if err != nil {
		return response.ServerError(c, "Verification failed")
	}
	if !ok {
		return response.BadRequest(c, message)
	}

	accessToken, refreshToken, err := h.authService.TokensFor(user)
	if err != nil {
		return response.ServerError(c, "Verification succeeded but token issuance failed")
	}

	return response.Success(c, message, fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user": fiber.Map{
			"id":         user.ID,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
		},
	})
}

type resendPayload struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
}

// ResendOTP issues a fresh code, subject to the one-minute rate limit.
func (h *RegistrationHandler) ResendOTP(c *fiber.Ctx) error {
	var payload resendPayload
	if err := c.BodyParser(&payload); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if verr := validation.Struct(payload); verr != nil {
		return response.FieldError(c, verr.Field, verr.Message)
	}

	user, err := h.userRepo.GetByPhone(payload.PhoneNumber)
	if err != nil {
		if err == repositories.ErrUserNotFound {
			return response.NotFound(c, "No account found with this phone number.")
		}
		return response.ServerError(c, "Resend failed")
	}

	ok, message, err := h.registrationService.ResendOTP(user)
	if err != nil {
		return response.ServerError(c, "Resend failed")
	}
	if !ok {
		return response.Error(c, fiber.StatusTooManyRequests, message)
	}
	return response.Success(c, message, nil)
}
