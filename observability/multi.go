package observability

import (
	"context"
	"fmt"
	"strings"
)

// Fanout delivers each event to every member observer in order.
type Fanout struct {
	members []Observer
}

// NewFanout drops nil members and flattens nested Fanouts.
func NewFanout(observers ...Observer) *Fanout {
	f := &Fanout{members: make([]Observer, 0, len(observers))}
	for _, obs := range observers {
		switch o := obs.(type) {
		case nil:
		case *Fanout:
			f.members = append(f.members, o.members...)
		default:
			f.members = append(f.members, o)
		}
	}
	return f
}

// Len reports the number of member observers.
func (f *Fanout) Len() int { return len(f.members) }

func (f *Fanout) OnEvent(ctx context.Context, event Event) {
	for _, obs := range f.members {
		obs.OnEvent(ctx, event)
	}
}

// Resolve looks up a comma-separated list of registered observer names,
// such as "slog,events". A single name returns that observer directly;
// several are combined in a Fanout. Repeated names are delivered once.
func Resolve(names string) (Observer, error) {
	var (
		found []Observer
		seen  = make(map[string]bool)
	)
	for name := range strings.SplitSeq(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		obs, err := GetObserver(name)
		if err != nil {
			return nil, err
		}
		found = append(found, obs)
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("no observer named in %q", names)
	case 1:
		return found[0], nil
	default:
		return NewFanout(found...), nil
	}
}
