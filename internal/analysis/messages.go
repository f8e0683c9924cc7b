package analysis

import "github.com/hyperjump/pagewise/internal/models"

// MessageKey names a user-facing message that is returned in the session's language.
type MessageKey int

const (
	MsgTextContent MessageKey = iota
	MsgVisualContent
	MsgFallbackSummary
	MsgUploadSuccess
	MsgSessionDeleted
	MsgNavigated
	MsgNavigationFailed
)

var messages = map[models.Language]map[MessageKey]string{
	models.LanguageArabic: {
		MsgTextContent:      "تحتوي هذه الصفحة على محتوى نصي",
		MsgVisualContent:    "صفحة تحتوي على محتوى مرئي أو صور",
		MsgFallbackSummary:  "تم إنشاء ملخص تجريبي للمستند",
		MsgUploadSuccess:    "تم تحليل المستند بنجاح",
		MsgSessionDeleted:   "تم حذف جلسة المستند بنجاح",
		MsgNavigated:        "تم الانتقال إلى الصفحة %d",
		MsgNavigationFailed: "لم أتمكن من فهم الأمر. حاول مرة أخرى.",
	},
	models.LanguageEnglish: {
		MsgTextContent:      "This page contains text content",
		MsgVisualContent:    "Page contains visual content or images",
		MsgFallbackSummary:  "Test document summary created",
		MsgUploadSuccess:    "Document analyzed successfully",
		MsgSessionDeleted:   "Document session deleted successfully",
		MsgNavigated:        "Moved to page %d",
		MsgNavigationFailed: "I could not understand the command. Please try again.",
	},
}

// Message returns the text for key in lang. Unknown languages use the default language.
// Some messages are format strings taking a page number.
func Message(lang models.Language, key MessageKey) string {
	table, ok := messages[lang]
	if !ok {
		table = messages[models.DefaultLanguage]
	}
	return table[key]
}
