// Package events defines the typed event payloads carried by panelink's
// event bus.
//
// Each payload has a topic constant. Events are created with event.NewEvent:
//
//	evt := event.NewEvent(events.TopicDocumentOpened,
//	    events.DocumentOpened{Pane: id, Document: "notes.md"},
//	    "workspace",
//	)
//	bus.Publish(ctx, evt)
//
// Topics follow <module>.<entity>.<action>; subscribers may use the
// wildcards described in package topic.
package events
