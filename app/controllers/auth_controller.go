package controllers

import (
	"errors"
	"strings"

	"github.com/a-h/templ"
	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/session"

	"github.com/premiumgate/premiumgate/app/models"
	"github.com/premiumgate/premiumgate/app/repository"
	"github.com/premiumgate/premiumgate/internal/pkg/constants"
	"github.com/premiumgate/premiumgate/internal/pkg/flash"
	isession "github.com/premiumgate/premiumgate/internal/pkg/session"
	"github.com/premiumgate/premiumgate/internal/pkg/statistics"
	auth_views "github.com/premiumgate/premiumgate/views/auth"
)

const (
	msgCredentialsRequired = "Email e senha são obrigatórios."
	msgEmailTaken          = "Email já cadastrado."
	msgRegistered          = "Registro feito com sucesso! Faça login."
	msgEmailNotFound       = "Email não encontrado."
	msgWrongPassword       = "Senha incorreta."
	msgCredentialsInvalid  = "Email ou senha inválidos."
	msgPasswordTooLong     = "A senha deve ter no máximo 72 bytes."
	msgLoggedOut           = "Você saiu da sua conta."
	msgSomethingWentWrong  = "Erro inesperado. Por favor, tente novamente."
)

// AuthController handles registration, login and logout.
type AuthController struct {
	users    repository.UserRepository
	sessions *session.Store
	stats    *statistics.Service
	log      *log.Logger
}

// NewAuthController builds the controller. stats may be nil.
func NewAuthController(users repository.UserRepository, sessions *session.Store, stats *statistics.Service, l *log.Logger) *AuthController {
	return &AuthController{users: users, sessions: sessions, stats: stats, log: l.WithPrefix("auth")}
}

// credentials reads the form; "senha" is the canonical field, "password" an alias.
func credentials(c *fiber.Ctx) (string, string) {
	email := strings.TrimSpace(c.FormValue("email"))
	password := strings.TrimSpace(c.FormValue("senha"))
	if password == "" {
		password = strings.TrimSpace(c.FormValue("password"))
	}
	return email, password
}

func (ac *AuthController) HandleRegister(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		rindex := auth_views.RegisterIndex()
		register := page(c, "registrar", "Registrar", rindex)

		handler := adaptor.HTTPHandler(templ.Handler(register))

		return handler(c)
	}

	email, password := credentials(c)
	if email == "" || password == "" {
		return flash.Error(c, msgCredentialsRequired).Redirect(constants.RouteRegister, fiber.StatusSeeOther)
	}

	user, err := models.NewUser(email, password)
	if errors.Is(err, models.ErrPasswordTooLong) {
		return flash.Error(c, msgPasswordTooLong).Redirect(constants.RouteRegister, fiber.StatusSeeOther)
	}
	if err != nil {
		return flash.Error(c, msgCredentialsInvalid).Redirect(constants.RouteRegister, fiber.StatusSeeOther)
	}

	if err := ac.users.Create(c.UserContext(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return flash.Error(c, msgEmailTaken).Redirect(constants.RouteRegister, fiber.StatusSeeOther)
		}
		ac.log.Error("failed to create user", "err", err)
		return flash.Error(c, msgSomethingWentWrong).Redirect(constants.RouteRegister, fiber.StatusSeeOther)
	}

	ac.log.Info("user registered", "user_id", user.ID)
	if ac.stats != nil {
		ac.stats.Invalidate(c.UserContext())
	}
	return flash.Success(c, msgRegistered).Redirect(constants.RouteLogin, fiber.StatusSeeOther)
}

func (ac *AuthController) HandleLogin(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return ac.renderLogin(c, "")
	}

	email, password := credentials(c)
	user, err := ac.users.GetByEmail(c.UserContext(), email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			ac.log.Error("failed to load user for login", "err", err)
			flash.Set(c, flash.TypeError, msgSomethingWentWrong)
		} else {
			flash.Set(c, flash.TypeError, msgEmailNotFound)
		}
		return ac.renderLogin(c, email)
	}

	if !user.CheckPassword(password) {
		flash.Set(c, flash.TypeError, msgWrongPassword)
		return ac.renderLogin(c, email)
	}

	if err := isession.Login(c, ac.sessions, user.ID); err != nil {
		ac.log.Error("failed to start session", "user_id", user.ID, "err", err)
		flash.Set(c, flash.TypeError, msgSomethingWentWrong)
		return ac.renderLogin(c, email)
	}

	return c.Redirect(constants.RoutePremium, fiber.StatusSeeOther)
}

// renderLogin shows the login form, keeping the email that was typed.
func (ac *AuthController) renderLogin(c *fiber.Ctx, email string) error {
	lindex := auth_views.LoginIndex(email)
	login := page(c, "login", "Entrar", lindex)

	handler := adaptor.HTTPHandler(templ.Handler(login))

	return handler(c)
}

func (ac *AuthController) HandleLogout(c *fiber.Ctx) error {
	if err := isession.Logout(c, ac.sessions); err != nil {
		ac.log.Warn("failed to destroy session", "err", err)
	}
	return flash.Info(c, msgLoggedOut).Redirect(constants.RouteHome, fiber.StatusSeeOther)
}
