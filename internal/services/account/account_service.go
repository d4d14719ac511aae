package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightride/brightride-api/internal/apperrors"
	"github.com/brightride/brightride-api/internal/models"
	"github.com/brightride/brightride-api/internal/utils"
)

// RoleFields carries the registration attributes that only make sense for
// one role. Exactly one of PassengerFields, DriverFields or MechanicFields.
type RoleFields interface {
	role() models.Role
}

type PassengerFields struct{}

type DriverFields struct {
	VehicleDetails string
	LicenseNumber  string
	Location       string
	CostPerKm      *float64
}

type MechanicFields struct {
	ShopName        string
	ServicesOffered string
	Location        string
}

func (PassengerFields) role() models.Role { return models.RolePassenger }
func (DriverFields) role() models.Role    { return models.RoleDriver }
func (MechanicFields) role() models.Role  { return models.RoleMechanic }

type Registration struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Fields   RoleFields
}

// Summary is the minimal user view returned with a credential.
type Summary struct {
	ID    uuid.UUID   `json:"id"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	Name  string      `json:"name"`
}

type Session struct {
	Token string  `json:"token"`
	User  Summary `json:"user"`
}

type Service struct {
	DB         *gorm.DB
	JWTSecret  string
	ExpiresMin int
}

func NewService(db *gorm.DB, jwtSecret string, expiresMin int) *Service {
	return &Service{DB: db, JWTSecret: jwtSecret, ExpiresMin: expiresMin}
}

func summarize(u *models.User) Summary {
	return Summary{ID: u.ID, Email: u.Email, Role: u.Role, Name: u.Name}
}

// Register creates the user and, for drivers and mechanics, the matching
// profile in one transaction, then issues a credential.
func (s *Service) Register(ctx context.Context, reg Registration) (*Session, error) {
	if reg.Fields == nil {
		reg.Fields = PassengerFields{}
	}
	email := strings.ToLower(strings.TrimSpace(reg.Email))

	var existing models.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, apperrors.New(apperrors.ErrDuplicateAccount, "User already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}

	hash, err := utils.HashPassword(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         reg.Fields.role(),
		Name:         strings.TrimSpace(reg.Name),
		Phone:        strings.TrimSpace(reg.Phone),
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&u).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.New(apperrors.ErrDuplicateAccount, "User already exists")
			}
			return fmt.Errorf("create user: %w", err)
		}

		switch f := reg.Fields.(type) {
		case DriverFields:
			p := models.DriverProfile{
				UserID:          u.ID,
				VehicleDetails:  orDefault(f.VehicleDetails, models.DefaultVehicleDetails),
				LicenseNumber:   orDefault(f.LicenseNumber, models.DefaultLicenseNumber),
				CurrentLocation: orDefault(f.Location, models.DefaultLocation),
				IsAvailable:     true,
				CostPerKm:       f.CostPerKm,
			}
			if err := tx.Create(&p).Error; err != nil {
				return fmt.Errorf("create driver profile: %w", err)
			}
		case MechanicFields:
			p := models.MechanicProfile{
				UserID:          u.ID,
				ShopName:        orDefault(f.ShopName, models.DefaultShopName),
				ServicesOffered: orDefault(f.ServicesOffered, models.DefaultServicesOffered),
				Location:        orDefault(f.Location, models.DefaultLocation),
				IsAvailable:     true,
			}
			if err := tx.Create(&p).Error; err != nil {
				return fmt.Errorf("create mechanic profile: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.issue(&u)
}

// Login does not tell "no such user" apart from "wrong password".
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var u models.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.New(apperrors.ErrInvalidCredentials, "Invalid credentials")
	}
	if err != nil {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}

	if !utils.CheckPassword(u.PasswordHash, password) {
		return nil, apperrors.New(apperrors.ErrInvalidCredentials, "Invalid credentials")
	}
	return s.issue(&u)
}

// SignIn issues a credential for a user authenticated elsewhere (Google).
// Unknown emails are registered as passengers with an unusable password.
func (s *Service) SignIn(ctx context.Context, email, name string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var u models.User
	err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err == nil {
		return s.issue(&u)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}

	hash, err := utils.HashPassword(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u = models.User{Email: email, Name: name, PasswordHash: hash, Role: models.RolePassenger}
	if err := s.DB.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.issue(&u)
}

func (s *Service) CurrentUser(ctx context.Context, id uuid.UUID) (*Summary, error) {
	var u models.User
	err := s.DB.WithContext(ctx).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.New(apperrors.ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	sum := summarize(&u)
	return &sum, nil
}

func (s *Service) issue(u *models.User) (*Session, error) {
	token, err := utils.SignJWT(s.JWTSecret, u.ID.String(), string(u.Role), s.ExpiresMin)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{Token: token, User: summarize(u)}, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
