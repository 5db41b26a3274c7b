package service

// conversationKey identifies one logical thread as seen from one user's
// viewpoint: the counterpart plus the listing scope. Two messages belong
// to the same conversation iff their keys are equal.
type conversationKey struct {
	otherID   string
	productID string // "" = not listing-scoped
}

// keyFor computes the conversation a message belongs to. The inbox
// aggregator and the thread reader must agree on this grouping exactly
// or unread counts would attach to the wrong thread, so it lives here
// and nowhere else. ok is false when the viewer is not a party to the
// message.
func keyFor(viewerID, senderID, receiverID, productID string) (conversationKey, bool) {
	switch viewerID {
	case senderID:
		return conversationKey{otherID: receiverID, productID: productID}, true
	case receiverID:
		return conversationKey{otherID: senderID, productID: productID}, true
	}
	return conversationKey{}, false
}

const previewRunes = 40

// preview truncates content to 40 code points plus an ellipsis; shorter
// content is returned verbatim.
func preview(content string) string {
	r := []rune(content)
	if len(r) > previewRunes {
		return string(r[:previewRunes]) + "..."
	}
	return content
}
