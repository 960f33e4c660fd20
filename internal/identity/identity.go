// Package identity answers the question "is this sender a bot admin".
//
// Sender and conversation identifiers share a numeric range on Telegram
// (a one-to-one chat has the same id as the user in it), so the two are
// kept as distinct named types. Code that only has a ChatID cannot call
// the resolver by accident.
package identity

// UserID identifies the account that authored a message.
type UserID int64

// ChatID identifies the chat, group, or channel a message was posted in.
// It is never a substitute for UserID.
type ChatID int64

// DirectChat returns the chat id of the one-to-one conversation with a
// user. On Telegram the two coincide numerically; this is the only place
// in the codebase where the conversion is allowed to happen.
func DirectChat(id UserID) ChatID {
	return ChatID(id)
}
