// Package auth authorizes inbound senders. There are no user accounts; the
// farm's operators are a fixed set of phone numbers.
package auth

// SenderAllowList authorizes command senders by phone number. An empty list
// permits everyone, matching a development setup with no numbers configured.
type SenderAllowList struct {
	numbers map[string]struct{}
}

// NewSenderAllowList builds an allow-list from configured numbers.
func NewSenderAllowList(numbers []string) *SenderAllowList {
	l := &SenderAllowList{}
	if len(numbers) == 0 {
		return l
	}
	l.numbers = make(map[string]struct{}, len(numbers))
	for _, n := range numbers {
		l.numbers[n] = struct{}{}
	}
	return l
}

// Authorized reports whether the sender may issue commands.
func (l *SenderAllowList) Authorized(phone string) bool {
	if l.numbers == nil {
		return true
	}
	_, ok := l.numbers[phone]
	return ok
}
