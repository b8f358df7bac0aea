package customer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"ticketing-api/internal/auth"
	"ticketing-api/internal/logger"
	"ticketing-api/internal/models"
	"ticketing-api/internal/utils"
)

type CustomerDBLayer interface {
	GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	UpdateCredentials(ctx context.Context, customer *models.Customer) error
	ListCustomers(ctx context.Context) ([]models.Customer, error)
}

type CustomerService struct {
	DB      CustomerDBLayer
	Issuer  *auth.Issuer
	Revoker auth.Revoker
	Logger  *logger.Logger
	now     func() time.Time
}

func NewCustomerService(db CustomerDBLayer, issuer *auth.Issuer, revoker auth.Revoker, log *logger.Logger) *CustomerService {
	if revoker == nil {
		revoker = auth.NoopRevoker{}
	}
	return &CustomerService{DB: db, Issuer: issuer, Revoker: revoker, Logger: log, now: time.Now}
}

// Register creates a customer with the user role.
func (s *CustomerService) Register(ctx context.Context, req models.RegisterRequest) (*models.Customer, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	exists, err := s.DB.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewEmailTakenError()
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	customer := &models.Customer{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		PasswordHash:     hash,
		Role:             models.RoleUser,
		Phone:            req.Phone,
		RegistrationDate: s.now().UTC(),
	}
	if err := s.DB.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}

	s.Logger.Info("AUTH", fmt.Sprintf("Registered customer %d", customer.CustomerID))
	return customer, nil
}

// Login verifies the credentials and issues an access token. Unknown email
// and wrong password produce the same error.
func (s *CustomerService) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return "", err
	}

	customer, err := s.DB.GetCustomerByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return "", err
	}

	var hash string
	if customer != nil {
		hash = customer.PasswordHash
	}
	if !auth.CheckPassword(hash, req.Password) || customer == nil {
		s.Logger.LogSecurity("LOGIN_FAILED", "invalid credentials")
		return "", models.NewInvalidCredentialsError()
	}

	token, _, err := s.Issuer.Issue(customer.CustomerID, customer.Role)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *CustomerService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return errors.Mark(errors.New("Authentication required"), models.ErrUnauthenticated)
	}
	return s.Revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// EnsureAdmin creates the admin account, or promotes an existing customer
// with that email and resets the password.
func (s *CustomerService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return models.NewValidationError("Admin email and password are required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	existing, err := s.DB.GetCustomerByEmail(ctx, email)
	switch {
	case err == nil:
		existing.PasswordHash = hash
		existing.Role = models.RoleAdmin
		if err := s.DB.UpdateCredentials(ctx, existing); err != nil {
			return err
		}
		s.Logger.Info("AUTH", fmt.Sprintf("Admin account %d refreshed", existing.CustomerID))
		return nil
	case !errors.Is(err, models.ErrNotFound):
		return err
	}

	admin := &models.Customer{
		FirstName:        "Admin",
		LastName:         "User",
		Email:            email,
		PasswordHash:     hash,
		Role:             models.RoleAdmin,
		RegistrationDate: s.now().UTC(),
	}
	if err := s.DB.CreateCustomer(ctx, admin); err != nil {
		return err
	}
	s.Logger.Info("AUTH", fmt.Sprintf("Admin account %d created", admin.CustomerID))
	return nil
}

func (s *CustomerService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return s.DB.ListCustomers(ctx)
}
