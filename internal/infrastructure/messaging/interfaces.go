// Package messaging defines interfaces for real-time communication.
package messaging

// Publisher fans live events out to the clients watching a page.
type Publisher interface {
	Publish(pageID string, event LiveEvent)
	ClientCount(pageID string) int
}
