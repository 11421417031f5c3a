package model

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

var (
	ErrInvalidChunkID  = errors.New("invalid chunk id")
	ErrInvalidLocation = errors.New("invalid chunk location")
)

// ChunkID is an opaque identifier minted by the master. It doubles as the
// blob name on every chunk server holding a replica.
type ChunkID string

func (id ChunkID) String() string {
	return string(id)
}

// Validate rejects ids that cannot safely name a file on a chunk server.
func (id ChunkID) Validate() error {
	s := string(id)
	if s == "" || s == "." || s == ".." || strings.ContainsAny(s, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidChunkID, s)
	}

	return nil
}

// ChunkIDs is the ordered chunk list of a file, in allocation order.
type ChunkIDs []ChunkID

func (ids ChunkIDs) Clone() ChunkIDs {
	out := make(ChunkIDs, len(ids))
	copy(out, ids)
	return out
}

// ChunkLocation identifies one chunk server holding a replica.
type ChunkLocation struct {
	Host string
	Port int
}

func (l ChunkLocation) Address() string {
	return net.JoinHostPort(l.Host, strconv.Itoa(l.Port))
}

func (l ChunkLocation) String() string {
	return l.Address()
}

func (l ChunkLocation) Validate() error {
	if l.Host == "" {
		return fmt.Errorf("%w: empty host", ErrInvalidLocation)
	}

	if l.Port <= 0 || l.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidLocation, l.Port)
	}

	return nil
}

// ParseChunkLocation parses a host:port address.
func ParseChunkLocation(addr string) (ChunkLocation, error) {
	host, portStr, err := net.SplitHostPort(strings.TrimSpace(addr))
	if err != nil {
		return ChunkLocation{}, fmt.Errorf("%w: %v", ErrInvalidLocation, err)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return ChunkLocation{}, fmt.Errorf("%w: port %q", ErrInvalidLocation, portStr)
	}

	loc := ChunkLocation{Host: host, Port: port}
	return loc, loc.Validate()
}

// Locations is an ordered replica list. The order is the read-attempt order,
// not a ranking.
type Locations []ChunkLocation

func (ls Locations) Clone() Locations {
	out := make(Locations, len(ls))
	copy(out, ls)
	return out
}

func (ls Locations) Addresses() []string {
	addrs := make([]string, 0, len(ls))
	for _, l := range ls {
		addrs = append(addrs, l.Address())
	}

	return addrs
}

type ChunkMetadata struct {
	ID        ChunkID
	Locations Locations
}
