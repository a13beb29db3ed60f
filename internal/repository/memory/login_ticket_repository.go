package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// LoginTicket is a single-use magic-link token held in memory. Tickets are
// short-lived, losing them on restart only means requesting a new link.
type LoginTicket struct {
	Token     string
	UserId    uuid.UUID
	Email     string
	CreatedAt time.Time
}

type LoginTicketRepository struct {
	cache *cache.Cache
}

func NewLoginTicketRepository(ttl time.Duration) *LoginTicketRepository {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &LoginTicketRepository{
		cache: cache.New(ttl, 5*time.Minute),
	}
}

func (r *LoginTicketRepository) Save(ticket *LoginTicket) {
	r.cache.Set(ticket.Token, ticket, cache.DefaultExpiration)
}

func (r *LoginTicketRepository) Get(token string) (*LoginTicket, bool) {
	if x, found := r.cache.Get(token); found {
		return x.(*LoginTicket), true
	}
	return nil, false
}

func (r *LoginTicketRepository) Delete(token string) {
	r.cache.Delete(token)
}
