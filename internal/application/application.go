package application

import (
	"context"
	"strings"

	"go-discord-whitelist-bot/internal/constants"
)

// Validator — внешняя проверка ника (см. internal/oracle).
type Validator interface {
	IsValid(ctx context.Context, username string) bool
}

// Application — разобранная анкета. Живёт в пределах обработки одного сообщения.
type Application struct {
	Username string
	Error    string
}

func (a Application) IsValid() bool {
	return a.Error == "" && a.Username != ""
}

func rejected(reason string) Application {
	return Application{Error: reason}
}

// Parse разбирает текст анкеты. Текст должен быть уже очищен от разметки,
// регистр сохраняется.
func Parse(ctx context.Context, text string, v Validator) Application {
	lines := strings.Split(text, "\n")
	if len(lines) < constants.MinApplicationLines {
		return rejected(constants.MsgFormIncomplete)
	}

	_, after, found := strings.Cut(lines[0], ":")
	if !found {
		return rejected(constants.MsgUsernameMissing)
	}
	username := strings.TrimSpace(after)
	if username == "" {
		return rejected(constants.MsgUsernameMissing)
	}

	if !v.IsValid(ctx, username) {
		return rejected(constants.MsgUsernameInvalid)
	}
	return Application{Username: username}
}
