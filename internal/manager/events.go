package manager

import (
	"context"
	"sync"

	"github.com/jdujava/texlab/internal/workspace"
)

type EventType int

const (
	CreateDocument EventType = iota
	DeleteDocument
	CreateLink
	DeleteLink
)

func (t EventType) String() string {
	switch t {
	case CreateDocument:
		return "createDocument"
	case DeleteDocument:
		return "deleteDocument"
	case CreateLink:
		return "createLink"
	case DeleteLink:
		return "deleteLink"
	default:
		return "unknown"
	}
}

// Event describes one change of the document graph. URI is set for
// document events, Link for link events.
type Event struct {
	Type EventType
	URI  string
	Link *workspace.Edge
}

type broadcaster struct {
	mu          sync.Mutex
	subscribers map[int]chan Event
	nextID      int
}

func newBroadcaster() *broadcaster {
	return &broadcaster{subscribers: make(map[int]chan Event)}
}

func (b *broadcaster) subscribe(ctx context.Context) <-chan Event {
	b.mu.Lock()
	ch := make(chan Event, 64)
	id := b.nextID
	b.nextID++
	b.subscribers[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subscribers, id)
		close(ch)
		b.mu.Unlock()
	}()
	return ch
}

func (b *broadcaster) active() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers) > 0
}

func (b *broadcaster) emit(event Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			log.Warningf("dropping %s event for a slow subscriber", event.Type)
		}
	}
}

// diff emits the changes between two generations: new documents, then
// removed links, new links and removed documents.
func (b *broadcaster) diff(prev, next *workspace.Workspace) {
	for _, doc := range next.Documents() {
		if _, ok := prev.Lookup(doc.URI); !ok {
			b.emit(Event{Type: CreateDocument, URI: doc.URI})
		}
	}

	before := edgeSet(prev.Edges())
	after := edgeSet(next.Edges())
	for _, edge := range prev.Edges() {
		if !after[edge] {
			b.emit(Event{Type: DeleteLink, Link: &edge})
		}
	}
	for _, edge := range next.Edges() {
		if !before[edge] {
			b.emit(Event{Type: CreateLink, Link: &edge})
		}
	}

	for _, doc := range prev.Documents() {
		if _, ok := next.Lookup(doc.URI); !ok {
			b.emit(Event{Type: DeleteDocument, URI: doc.URI})
		}
	}
}

func edgeSet(edges []workspace.Edge) map[workspace.Edge]bool {
	set := make(map[workspace.Edge]bool, len(edges))
	for _, edge := range edges {
		set[edge] = true
	}
	return set
}
