package validation

import (
	"fmt"
	"regexp"
)

// UserIDPattern определяет допустимый формат идентификатора пользователя
// Латинские буквы, цифры и символы _ . @ : -
// Длина: 1-128 символов
var UserIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.@:-]{1,128}$`)

const (
	// MaxUserIDLen максимальная длина идентификатора пользователя
	MaxUserIDLen = 128
	// MinPassphraseLen минимальная длина пароля шифрования очереди
	MinPassphraseLen = 12
)

// ValidateUserID проверяет идентификатор пользователя
func ValidateUserID(userID string) error {
	if userID == "" {
		return fmt.Errorf("userId cannot be empty")
	}

	if len(userID) > MaxUserIDLen {
		return fmt.Errorf("userId must not exceed %d characters", MaxUserIDLen)
	}

	if !UserIDPattern.MatchString(userID) {
		return fmt.Errorf("userId can only contain letters, digits and _ . @ : -")
	}

	return nil
}

// ValidatePassphrase проверяет минимальные требования к паролю шифрования очереди
func ValidatePassphrase(passphrase string) error {
	if passphrase == "" {
		return fmt.Errorf("passphrase cannot be empty")
	}

	if len(passphrase) < MinPassphraseLen {
		return fmt.Errorf("passphrase must be at least %d characters long", MinPassphraseLen)
	}

	return nil
}
