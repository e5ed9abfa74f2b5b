package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/unifiedui/mongo-viewer/internal/api/dto"
	"github.com/unifiedui/mongo-viewer/internal/core/docdb"
)

// DefaultPageLimit is the number of documents requested per collection.
const DefaultPageLimit int64 = 50

// ErrEmptyConnectionString is returned by Connect before any request is made.
var ErrEmptyConnectionString = errors.New("Please provide a MongoDB connection string")

// ErrNotConnected is returned by operations that need an open browser session.
var ErrNotConnected = errors.New("not connected")

// ErrNoCollection is returned by Stats when no collection is open.
var ErrNoCollection = errors.New("no collection selected")

// State is the browser's position in the navigation.
type State int

// Browser states.
const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateBrowsingDatabase
	StateBrowsingCollection
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateBrowsingDatabase:
		return "browsing database"
	case StateBrowsingCollection:
		return "browsing collection"
	default:
		return "unknown"
	}
}

// API is the gateway surface the browser drives.
type API interface {
	Connect(ctx context.Context, connectionString string) error
	Disconnect(ctx context.Context) error
	Databases(ctx context.Context) ([]docdb.DatabaseSummary, error)
	Collections(ctx context.Context, dbName string) ([]docdb.CollectionSummary, error)
	Documents(ctx context.Context, dbName, collectionName string, limit int64) (*dto.DocumentsResponse, error)
	Stats(ctx context.Context, dbName, collectionName string) (*dto.StatsResponse, error)
}

// Options tune the browser.
type Options struct {
	// PageLimit is the document page size; 0 uses DefaultPageLimit.
	PageLimit int64
	// CloseServerSession makes Disconnect also close the gateway's session.
	// When false only the local view is reset and the gateway stays connected.
	CloseServerSession bool
}

// View is a snapshot of what the UI renders.
type View struct {
	State              State
	Databases          []docdb.DatabaseSummary
	Collections        []docdb.CollectionSummary
	Documents          []json.RawMessage
	TotalCount         int64
	SelectedDatabase   string
	SelectedCollection string
	LastError          string
	Loading            bool
}

// Browser is the navigation state machine:
// Disconnected, Connecting, Connected, BrowsingDatabase, BrowsingCollection.
// Each successful fetch replaces the part of the view it loaded.
type Browser struct {
	api  API
	opts Options

	mu       sync.Mutex
	view     View
	inFlight int
}

// NewBrowser creates a browser in the disconnected state.
func NewBrowser(api API, opts Options) *Browser {
	if opts.PageLimit == 0 {
		opts.PageLimit = DefaultPageLimit
	}
	return &Browser{api: api, opts: opts}
}

// Connect opens a gateway session and loads the database list.
func (b *Browser) Connect(ctx context.Context, connectionString string) error {
	connectionString = strings.TrimSpace(connectionString)
	if connectionString == "" {
		b.update(func(v *View) { v.LastError = ErrEmptyConnectionString.Error() })
		return ErrEmptyConnectionString
	}

	b.begin(func(v *View) {
		v.State = StateConnecting
		v.LastError = ""
	})
	defer b.end()

	fail := func(err error) error {
		b.update(func(v *View) {
			*v = View{State: StateDisconnected, LastError: "Connection failed: " + err.Error()}
		})
		return err
	}

	if err := b.api.Connect(ctx, connectionString); err != nil {
		return fail(err)
	}

	databases, err := b.api.Databases(ctx)
	if err != nil {
		return fail(err)
	}
	if databases == nil {
		databases = []docdb.DatabaseSummary{}
	}

	b.update(func(v *View) {
		*v = View{State: StateConnected, Databases: databases}
	})
	return nil
}

// SelectDatabase loads the collections of dbName.
// On failure the previous view is kept and LastError is set.
func (b *Browser) SelectDatabase(ctx context.Context, dbName string) error {
	if dbName == "" {
		return nil
	}
	if !b.connected() {
		b.update(func(v *View) { v.LastError = "Not connected to MongoDB" })
		return ErrNotConnected
	}

	b.begin(nil)
	defer b.end()

	collections, err := b.api.Collections(ctx, dbName)
	if err != nil {
		b.update(func(v *View) { v.LastError = "Failed to fetch collections: " + err.Error() })
		return err
	}
	if collections == nil {
		collections = []docdb.CollectionSummary{}
	}

	b.update(func(v *View) {
		v.State = StateBrowsingDatabase
		v.Collections = collections
		v.SelectedDatabase = dbName
		v.SelectedCollection = ""
		v.Documents = nil
		v.TotalCount = 0
		v.LastError = ""
	})
	return nil
}

// SelectCollection loads the first page of documents of collectionName
// in the selected database.
func (b *Browser) SelectCollection(ctx context.Context, collectionName string) error {
	dbName := b.View().SelectedDatabase
	if collectionName == "" || dbName == "" {
		return nil
	}

	b.begin(nil)
	defer b.end()

	page, err := b.api.Documents(ctx, dbName, collectionName, b.opts.PageLimit)
	if err != nil {
		b.update(func(v *View) { v.LastError = "Failed to fetch documents: " + err.Error() })
		return err
	}

	documents := page.Documents
	if documents == nil {
		documents = []json.RawMessage{}
	}

	b.update(func(v *View) {
		v.State = StateBrowsingCollection
		v.Documents = documents
		v.TotalCount = page.TotalCount
		v.SelectedCollection = collectionName
		v.LastError = ""
	})
	return nil
}

// Stats fetches statistics for the selected collection.
func (b *Browser) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	view := b.View()
	if view.SelectedDatabase == "" || view.SelectedCollection == "" {
		b.update(func(v *View) { v.LastError = "No collection selected" })
		return nil, ErrNoCollection
	}

	b.begin(nil)
	defer b.end()

	stats, err := b.api.Stats(ctx, view.SelectedDatabase, view.SelectedCollection)
	if err != nil {
		b.update(func(v *View) { v.LastError = "Failed to fetch stats: " + err.Error() })
		return nil, err
	}
	return stats, nil
}

// Disconnect resets the view to the disconnected state.
// With CloseServerSession the gateway session is closed first; the view is
// reset even if that call fails.
func (b *Browser) Disconnect(ctx context.Context) error {
	var serverErr error
	if b.opts.CloseServerSession {
		b.begin(nil)
		serverErr = b.api.Disconnect(ctx)
		b.end()
	}

	b.update(func(v *View) {
		*v = View{State: StateDisconnected}
		if serverErr != nil {
			v.LastError = "Failed to disconnect: " + serverErr.Error()
		}
	})
	return serverErr
}

// View returns a snapshot of the current view.
func (b *Browser) View() View {
	b.mu.Lock()
	defer b.mu.Unlock()

	v := b.view
	v.Loading = b.inFlight > 0
	return v
}

// State returns the current state.
func (b *Browser) State() State {
	return b.View().State
}

// LastError returns the last error shown to the user, or "".
func (b *Browser) LastError() string {
	return b.View().LastError
}

// Loading reports whether a request is in flight.
func (b *Browser) Loading() bool {
	return b.View().Loading
}

func (b *Browser) connected() bool {
	s := b.State()
	return s != StateDisconnected && s != StateConnecting
}

func (b *Browser) update(fn func(v *View)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&b.view)
}

func (b *Browser) begin(fn func(v *View)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inFlight++
	if fn != nil {
		fn(&b.view)
	}
}

func (b *Browser) end() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inFlight--
}
