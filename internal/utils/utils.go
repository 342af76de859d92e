package utils

import (
	"fmt"
	"strings"

	"go-discord-whitelist-bot/internal/constants"
)

var markupReplacer = strings.NewReplacer(`\`, "", "*", "", "`", "")

// StripMarkup убирает из текста символы разметки Discord (\ * `), регистр не трогает.
func StripMarkup(text string) string {
	return markupReplacer.Replace(text)
}

// NormalizeContent — StripMarkup + нижний регистр. Используется только для проверки заголовка.
func NormalizeContent(text string) string {
	return strings.ToLower(StripMarkup(text))
}

// HasApplicationHeader проверяет, что нормализованный текст начинается с заголовка анкеты.
func HasApplicationHeader(normalized string) bool {
	for _, h := range constants.ApplicationHeaders {
		if strings.HasPrefix(normalized, h) {
			return true
		}
	}
	return false
}

// MessageLink строит ссылку на сообщение в гильдии.
func MessageLink(guildID, channelID, messageID string) string {
	return fmt.Sprintf(constants.MessageLinkFormat, guildID, channelID, messageID)
}
