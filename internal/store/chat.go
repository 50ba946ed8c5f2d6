package store

import "context"

// InsertChat appends one exchange to the chat history. Callers treat failure
// as non-fatal: the reply was already produced.
func (s *Store) InsertChat(ctx context.Context, rec *ChatRecord) error {
	query := `
		INSERT INTO chat_history (user_id, user_message, bot_response)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := s.db.QueryRowContext(ctx, query, rec.UserID, rec.UserMessage, rec.BotResponse).
		Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return err
	}
	return nil
}
