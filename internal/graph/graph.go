// Package graph renders the document dependency graph, either as DOT or
// live in a browser over a websocket.
package graph

import (
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"path"
	"slices"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/tliron/commonlog"

	"github.com/jdujava/texlab/internal/manager"
	"github.com/jdujava/texlab/internal/workspace"
)

var log = commonlog.GetLogger("texlab.graph")

// GraphData holds the nodes and links of the graph.
type GraphData struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Node is a document. ID is its URI.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Link is a resolved include from Source to Target.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// IncrementalMessage is sent over the websocket to update clients.
type IncrementalMessage struct {
	Op    string     `json:"op"` // "init", "add", "deleteNode", "deleteLink"
	Graph *GraphData `json:"graph,omitempty"`
	Node  *Node      `json:"node,omitempty"`
	Link  *Link      `json:"link,omitempty"`
}

//go:embed static/*
var staticFiles embed.FS

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func label(uri string) string {
	return path.Base(uri)
}

// Snapshot builds the graph of a workspace generation.
func Snapshot(ws *workspace.Workspace) GraphData {
	data := GraphData{Nodes: []Node{}, Links: []Link{}}
	for _, doc := range ws.Documents() {
		data.Nodes = append(data.Nodes, Node{ID: doc.URI, Label: label(doc.URI)})
	}
	for _, edge := range ws.Edges() {
		data.Links = append(data.Links, Link{Source: edge.From, Target: edge.To})
	}
	return data
}

// WriteDOT writes the graph of ws in Graphviz syntax.
func WriteDOT(w io.Writer, ws *workspace.Workspace) error {
	data := Snapshot(ws)
	if _, err := fmt.Fprintln(w, "digraph G {"); err != nil {
		return err
	}
	for _, node := range data.Nodes {
		if _, err := fmt.Fprintf(w, "  %q [label=%q];\n", node.ID, node.Label); err != nil {
			return err
		}
	}
	for _, link := range data.Links {
		if _, err := fmt.Fprintf(w, "  %q -> %q;\n", link.Source, link.Target); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

// Viewer serves the live graph and keeps it in sync with workspace
// events.
type Viewer struct {
	graphMu sync.Mutex
	graph   GraphData

	clientsMu sync.Mutex
	clients   map[*websocket.Conn]bool

	server *http.Server
}

func NewViewer(ws *workspace.Workspace) *Viewer {
	return &Viewer{
		graph:   Snapshot(ws),
		clients: make(map[*websocket.Conn]bool),
	}
}

// Handler serves the static page under /static/ and the websocket on /ws.
func (v *Viewer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/static/", http.FileServer(http.FS(staticFiles)))
	mux.HandleFunc("/ws", v.handleWS)
	return mux
}

// Start listens on addr (":0" picks a free port) and returns the URL of
// the page.
func (v *Viewer) Start(addr string) (string, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("graph: listen: %w", err)
	}
	v.server = &http.Server{Handler: v.Handler()}
	go func() {
		if err := v.server.Serve(l); err != nil && err != http.ErrServerClosed {
			log.Errorf("graph server error: %v", err)
		}
	}()
	return "http://" + l.Addr().String() + "/static/", nil
}

func (v *Viewer) Close() error {
	v.clientsMu.Lock()
	for conn := range v.clients {
		conn.Close()
		delete(v.clients, conn)
	}
	v.clientsMu.Unlock()
	if v.server == nil {
		return nil
	}
	return v.server.Close()
}

// Follow applies events until the channel closes.
func (v *Viewer) Follow(events <-chan manager.Event) {
	for event := range events {
		if err := v.Apply(event); err != nil {
			log.Warningf("apply %s: %v", event.Type, err)
		}
	}
}

// Apply updates the graph with one event and broadcasts the change.
// Creating an existing node or link is a no-op on the graph.
func (v *Viewer) Apply(event manager.Event) error {
	var msg IncrementalMessage
	v.graphMu.Lock()
	switch event.Type {
	case manager.CreateDocument:
		node := Node{ID: event.URI, Label: label(event.URI)}
		if !slices.Contains(v.graph.Nodes, node) {
			v.graph.Nodes = append(v.graph.Nodes, node)
		}
		msg = IncrementalMessage{Op: "add", Node: &node}
	case manager.DeleteDocument:
		nodes := v.graph.Nodes[:0]
		for _, n := range v.graph.Nodes {
			if n.ID != event.URI {
				nodes = append(nodes, n)
			}
		}
		v.graph.Nodes = nodes
		msg = IncrementalMessage{Op: "deleteNode", Node: &Node{ID: event.URI}}
	case manager.CreateLink:
		link := Link{Source: event.Link.From, Target: event.Link.To}
		if !slices.Contains(v.graph.Links, link) {
			v.graph.Links = append(v.graph.Links, link)
		}
		msg = IncrementalMessage{Op: "add", Link: &link}
	case manager.DeleteLink:
		link := Link{Source: event.Link.From, Target: event.Link.To}
		links := v.graph.Links[:0]
		for _, l := range v.graph.Links {
			if l != link {
				links = append(links, l)
			}
		}
		v.graph.Links = links
		msg = IncrementalMessage{Op: "deleteLink", Link: &link}
	}
	v.graphMu.Unlock()
	return v.broadcast(msg)
}

// Data returns a copy of the current graph.
func (v *Viewer) Data() GraphData {
	v.graphMu.Lock()
	defer v.graphMu.Unlock()
	return GraphData{
		Nodes: append([]Node{}, v.graph.Nodes...),
		Links: append([]Link{}, v.graph.Links...),
	}
}

func (v *Viewer) broadcast(msg IncrementalMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	v.clientsMu.Lock()
	defer v.clientsMu.Unlock()
	for conn := range v.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Warningf("broadcast error: %v", err)
			conn.Close()
			delete(v.clients, conn)
		}
	}
	return nil
}

func (v *Viewer) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warningf("websocket upgrade error: %v", err)
		return
	}

	v.clientsMu.Lock()
	state := v.Data()
	data, err := json.Marshal(IncrementalMessage{Op: "init", Graph: &state})
	if err == nil {
		err = conn.WriteMessage(websocket.TextMessage, data)
	}
	if err != nil {
		v.clientsMu.Unlock()
		log.Warningf("websocket init error: %v", err)
		conn.Close()
		return
	}
	v.clients[conn] = true
	v.clientsMu.Unlock()

	defer func() {
		v.clientsMu.Lock()
		delete(v.clients, conn)
		v.clientsMu.Unlock()
		conn.Close()
	}()
	for {
		if _, _, err := conn.NextReader(); err != nil {
			break
		}
	}
}
