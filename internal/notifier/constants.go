package notifier

const (
	SuccessEmbedColor = 0x5CB85C
	ErrorEmbedColor   = 0xD9534F
	WarningEmbedColor = 0xF0AD4E

	// Discord rejects field values longer than this many characters.
	maxFieldValueLength = 1024
	webhookUsername     = "Incident Harvest"
)
