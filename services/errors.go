package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурс не найден (универсальная)
	ErrNotFound = errors.New("requested resource not found")

	// Ошибки валидации и бизнес-правил
	ErrValidationFailed           = errors.New("validation failed")
	ErrPasswordTooShort           = errors.New("password is too short")
	ErrUsernameRequired           = errors.New("username is required")
	ErrGameTitleRequired          = errors.New("game title is required")
	ErrBacklogInvalidStatus       = errors.New("invalid backlog status")
	ErrCompetitionNameRequired    = errors.New("competition name is required")
	ErrCompetitionInvalidFormat   = errors.New("invalid competition format")
	ErrCompetitionAlreadyFinished = errors.New("competition is already finished")
	ErrMatchSamePlayer            = errors.New("a match requires two different players")
	ErrMatchNegativeScore         = errors.New("scores must be non-negative")

	// Финализация кумулятивного турнира ниже порога требует подтверждения.
	ErrFinishConfirmationRequired = errors.New("leader is below the win threshold, confirmation required to finish")

	// Ошибки конфликтов
	ErrEmailTaken         = errors.New("email is already taken")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrGameSlugConflict   = errors.New("a game with this slug already exists")
	ErrParticipantTwice   = errors.New("user is already registered for this competition")

	// Ошибки аутентификации и авторизации
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Ошибки, специфичные для сущностей
	ErrProfileNotFound     = errors.New("profile not found")
	ErrGameNotFound        = errors.New("game not found")
	ErrCompetitionNotFound = errors.New("competition not found")
	ErrMatchNotFound       = errors.New("match not found")
)
