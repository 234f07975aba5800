package session

// playerEntry is a live player record plus its outbound sinks (spec.md §3:
// "players: mapping from player-id to (player-record, ordered list of
// outbound sinks)").
type playerEntry struct {
	player Player
	sinks  []Sink
}

// registry owns the player map and fans messages out to sinks, grounded on
// Seednode-partybox/celebrity.go's Hub.clients bookkeeping and its
// non-blocking-send-then-prune idiom, generalized to many sinks per player.
type registry struct {
	order   []PlayerID // stable iteration order: join order
	players map[PlayerID]*playerEntry
}

func newRegistry() *registry {
	return &registry{players: make(map[PlayerID]*playerEntry)}
}

func (r *registry) count() int {
	return len(r.players)
}

func (r *registry) has(id PlayerID) bool {
	_, ok := r.players[id]
	return ok
}

func (r *registry) get(id PlayerID) (Player, bool) {
	e, ok := r.players[id]
	if !ok {
		return Player{}, false
	}
	return e.player, true
}

func (r *registry) mutate(id PlayerID, fn func(p *Player)) {
	e, ok := r.players[id]
	if !ok {
		return
	}
	fn(&e.player)
}

// addSink appends a sink to an existing player, or creates the player
// record (with the given initial state) if this is their first
// connection. Returns whether the player record already existed.
func (r *registry) addSink(id PlayerID, sink Sink, initial Player) bool {
	e, ok := r.players[id]
	if !ok {
		e = &playerEntry{player: initial}
		r.players[id] = e
		r.order = append(r.order, id)
	}
	e.sinks = append(e.sinks, sink)
	return ok
}

// pruneClosed drops any sinks belonging to id that report themselves
// closed (used on ClientLeave).
func (r *registry) pruneClosed(id PlayerID) {
	e, ok := r.players[id]
	if !ok {
		return
	}
	live := e.sinks[:0]
	for _, s := range e.sinks {
		if !s.Closed() {
			live = append(live, s)
		}
	}
	e.sinks = live
}

// remove deletes a player record entirely (Lobby kick only).
func (r *registry) remove(id PlayerID) {
	delete(r.players, id)
	for i, pid := range r.order {
		if pid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// playersClone returns a shallow copy of the player map for embedding in a
// snapshot (spec.md §4.11).
func (r *registry) playersClone() map[PlayerID]Player {
	out := make(map[PlayerID]Player, len(r.players))
	for id, e := range r.players {
		out[id] = e.player
	}
	return out
}

// ids returns player ids in stable join order.
func (r *registry) ids() []PlayerID {
	out := make([]PlayerID, len(r.order))
	copy(out, r.order)
	return out
}

// onlineIDs returns the ids of players with at least one live sink.
func (r *registry) onlineIDs() []PlayerID {
	var out []PlayerID
	for _, id := range r.order {
		if e := r.players[id]; e != nil && len(e.sinks) > 0 {
			out = append(out, id)
		}
	}
	return out
}

// unicast sends msg to every live sink of a single player, pruning
// failures.
func (r *registry) unicast(id PlayerID, msg any) {
	e, ok := r.players[id]
	if !ok {
		return
	}
	i := 0
	for i < len(e.sinks) {
		if err := e.sinks[i].Send(msg); err != nil {
			e.sinks = append(e.sinks[:i], e.sinks[i+1:]...)
			continue
		}
		i++
	}
}

// broadcast sends msg to every live sink of every player.
func (r *registry) broadcast(msg any) {
	for _, id := range r.order {
		r.unicast(id, msg)
	}
}

// broadcastExcept sends msg to every live sink of every player except the
// given id.
func (r *registry) broadcastExcept(except PlayerID, msg any) {
	for _, id := range r.order {
		if id == except {
			continue
		}
		r.unicast(id, msg)
	}
}
