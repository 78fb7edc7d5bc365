package broker

import (
	"github.com/samber/lo"
)

const (
	// SelfName - display name of the sender on its own connection.
	SelfName = "Me"
	// TimeLayout - layout of the event timestamp on the wire.
	TimeLayout = "2006-01-02 15:04:05"
)

// welcomeMessage - greeting written directly to newly connected client.
func welcomeMessage(id Identity) string {
	return id.String() + " welcome! Please write here!\n\n"
}

// formatMessage - formats event for the connection of self.
func formatMessage(self Identity, e Event) string {
	name := lo.Ternary(e.Sender == self, SelfName, e.Sender.String())
	return name + " [" + e.Time.Format(TimeLayout) + "]: " + e.Text + "\n"
}
