package provider

// SlugRegistry remembers every slug claimed during one run across all
// sources and locations. It is passed explicitly into Load so independent
// runs never share state. Not safe for concurrent use.
type SlugRegistry struct {
	seen map[string]string
}

// NewSlugRegistry creates an empty registry.
func NewSlugRegistry() *SlugRegistry {
	return &SlugRegistry{seen: make(map[string]string)}
}

// Claim records slug as owned by origin. When the slug was already claimed
// it returns the earlier origin and false.
func (r *SlugRegistry) Claim(slug, origin string) (string, bool) {
	if prev, ok := r.seen[slug]; ok {
		return prev, false
	}
	r.seen[slug] = origin
	return "", true
}

// Has reports whether slug has been claimed.
func (r *SlugRegistry) Has(slug string) bool {
	_, ok := r.seen[slug]
	return ok
}

// Len returns the number of claimed slugs.
func (r *SlugRegistry) Len() int {
	return len(r.seen)
}
