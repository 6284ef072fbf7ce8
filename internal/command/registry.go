package command

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
)

// maxSuggestions bounds the IDs offered for a mistyped command.
const maxSuggestions = 3

// Registry holds the available commands.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*Command
	history  *History

	onChange []func()
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*Command),
		history:  NewHistory(100),
	}
}

// Register adds a command. A command with the same ID is replaced.
func (r *Registry) Register(cmd *Command) error {
	if cmd == nil {
		return fmt.Errorf("%w: nil", ErrInvalidCommand)
	}
	if cmd.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidCommand)
	}
	if cmd.Title == "" {
		return fmt.Errorf("%w: %s has no title", ErrInvalidCommand, cmd.ID)
	}

	r.mu.Lock()
	r.commands[cmd.ID] = cmd
	r.mu.Unlock()

	r.notifyChange()
	return nil
}

// RegisterAll adds multiple commands.
func (r *Registry) RegisterAll(commands []*Command) error {
	for _, cmd := range commands {
		if err := r.Register(cmd); err != nil {
			return err
		}
	}
	return nil
}

// Unregister removes a command.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	_, exists := r.commands[id]
	delete(r.commands, id)
	r.mu.Unlock()

	if exists {
		r.notifyChange()
	}
	return exists
}

// UnregisterBySource removes all commands from a specific source.
func (r *Registry) UnregisterBySource(source string) int {
	r.mu.Lock()
	count := 0
	for id, cmd := range r.commands {
		if cmd.Source == source {
			delete(r.commands, id)
			count++
		}
	}
	r.mu.Unlock()

	if count > 0 {
		r.notifyChange()
	}
	return count
}

// Get retrieves a command by ID.
func (r *Registry) Get(id string) *Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.commands[id]
}

// Has checks if a command exists.
func (r *Registry) Has(id string) bool {
	return r.Get(id) != nil
}

// All returns all registered commands sorted by title.
func (r *Registry) All() []*Command {
	r.mu.RLock()
	result := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		result = append(result, cmd)
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].Title != result[j].Title {
			return result[i].Title < result[j].Title
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Count returns the number of registered commands.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.commands)
}

// Execute runs a command by ID. History is only updated after successful
// execution.
func (r *Registry) Execute(id string, args Args) error {
	cmd := r.Get(id)
	if cmd == nil {
		return &UnknownCommandError{ID: id, Suggestions: r.Suggest(id)}
	}
	if err := cmd.Execute(args); err != nil {
		return err
	}
	r.history.Add(id)
	return nil
}

// Suggest returns up to three registered IDs close to id by edit distance,
// closest first.
func (r *Registry) Suggest(id string) []string {
	type candidate struct {
		id   string
		dist int
	}

	limit := len(id) / 3
	if limit < 3 {
		limit = 3
	}

	r.mu.RLock()
	var candidates []candidate
	for known := range r.commands {
		d := levenshtein.ComputeDistance(strings.ToLower(id), strings.ToLower(known))
		if d <= limit {
			candidates = append(candidates, candidate{id: known, dist: d})
		}
	}
	r.mu.RUnlock()

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].dist != candidates[j].dist {
			return candidates[i].dist < candidates[j].dist
		}
		return candidates[i].id < candidates[j].id
	})
	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}

	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.id
	}
	return out
}

// Search returns commands whose title or ID contains query, case
// insensitively. Prefix matches rank first and recently run commands rank
// above others.
func (r *Registry) Search(query string, limit int) []*Command {
	q := strings.ToLower(strings.TrimSpace(query))

	type scored struct {
		cmd   *Command
		score int
	}
	var results []scored
	for _, cmd := range r.All() {
		title := strings.ToLower(cmd.Title)
		id := strings.ToLower(cmd.ID)
		score := 0
		switch {
		case q == "":
		case strings.HasPrefix(title, q) || strings.HasPrefix(id, q):
			score = 200
		case strings.Contains(title, q) || strings.Contains(id, q):
			score = 100
		default:
			continue
		}
		if pos := r.history.Position(cmd.ID); pos >= 0 {
			score += 100 - pos
		}
		results = append(results, scored{cmd: cmd, score: score})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	out := make([]*Command, len(results))
	for i, s := range results {
		out[i] = s.cmd
	}
	return out
}

// History returns the command history.
func (r *Registry) History() *History {
	return r.history
}

// OnChange registers a callback for command list changes.
func (r *Registry) OnChange(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = append(r.onChange, fn)
}

func (r *Registry) notifyChange() {
	r.mu.RLock()
	callbacks := make([]func(), len(r.onChange))
	copy(callbacks, r.onChange)
	r.mu.RUnlock()

	for _, fn := range callbacks {
		fn()
	}
}
