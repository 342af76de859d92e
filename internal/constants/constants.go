package constants

// Ответы пользователю.
const (
	MsgFormIncomplete   = "Form must be completed."
	MsgUsernameMissing  = "Username must be provided."
	MsgUsernameInvalid  = "Username is invalid."
	MsgRetryHint        = "You can dismiss this message and update your existing message to try again."
	MsgFeedbackTemplate = "``%s``\n" + MsgRetryHint
	MsgBackLink         = "Whitelist vote for **%s**: %s"
	MsgRelay            = "New whitelist vote for %s: %s"
)

// MinApplicationLines — минимальное число строк в анкете.
const MinApplicationLines = 4

// Опрос.
const (
	PollAnswerYes       = "Yes"
	PollAnswerNo        = "No"
	PollFallbackTitle   = "no username"
	DefaultPollDuration = 72 // часов
)

// ApplicationHeaders — допустимые начала анкеты (после нормализации).
var ApplicationHeaders = []string{"ss14 username", "username"}

// AcceptedReaction ставится на анкету после публикации голосования.
const AcceptedReaction = "✅"

// MessageLinkFormat — ссылка на сообщение: guild, channel, message.
const MessageLinkFormat = "https://discord.com/channels/%s/%s/%s"
