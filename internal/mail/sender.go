package mail

import "context"

// Sender submits a single plaintext email to a transactional mail provider.
// The sender address is part of the implementation's configuration; callers
// only decide recipient and content.
type Sender interface {
	Send(ctx context.Context, to, subject, text string) error
}

// Recorder is a test-friendly sender that captures messages in memory.
type Recorder struct {
	Outbox []Message
	Err    error
}

// Message is a single email captured by Recorder.
type Message struct {
	To      string
	Subject string
	Text    string
}

// Send records the email and returns the injected error, if any.
func (r *Recorder) Send(_ context.Context, to, subject, text string) error {
	if r == nil {
		return nil
	}
	r.Outbox = append(r.Outbox, Message{To: to, Subject: subject, Text: text})
	return r.Err
}

// Nop implements Sender without performing any action.
type Nop struct{}

// Send implements Sender.
func (Nop) Send(context.Context, string, string, string) error { return nil }
