package dashboard

// PendingDelayed reports how many one-shot jobs the client still tracks.
func (c *Client) PendingDelayed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.delayed)
}
