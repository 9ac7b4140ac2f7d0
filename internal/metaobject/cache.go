package metaobject

// SendCache is the send-side half of a stream's metaobject cache: an
// order-insensitive mapping from metaobject content hash to a monotonically
// assigned token. It is not safe for concurrent use on its own -- StreamContext
// is responsible for guarding it with its single mutex, same as every other
// piece of per-stream state.
type SendCache struct {
	tokens map[[32]byte]uint32
	nextID uint32
}

// NewSendCache returns an empty send cache. Token 0 is reserved for
// "uncached"; the first assigned token is 1.
func NewSendCache() *SendCache {
	return &SendCache{tokens: make(map[[32]byte]uint32)}
}

// Set records mo, returning its token and whether this was the first time mo
// was seen. Content-equal metaobjects always return the same token.
func (c *SendCache) Set(mo MetaObject) (token uint32, inserted bool) {
	h := mo.Hash()
	if existing, ok := c.tokens[h]; ok {
		return existing, false
	}
	c.nextID++
	c.tokens[h] = c.nextID
	return c.nextID, true
}

// Len reports how many distinct metaobjects have been cached.
func (c *SendCache) Len() int {
	return len(c.tokens)
}

// ReceiveCache is the receive-side half of a stream's metaobject cache: an
// unconditionally-overwriting mapping from token to metaobject. Entries are
// never evicted -- the cache grows for the life of the stream.
type ReceiveCache struct {
	byToken map[uint32]MetaObject
}

// NewReceiveCache returns an empty receive cache.
func NewReceiveCache() *ReceiveCache {
	return &ReceiveCache{byToken: make(map[uint32]MetaObject)}
}

// Set stores mo under token, overwriting any prior entry.
func (c *ReceiveCache) Set(token uint32, mo MetaObject) {
	c.byToken[token] = mo
}

// Get returns the metaobject stored under token, or ErrNotFound if none was
// ever set.
func (c *ReceiveCache) Get(token uint32) (MetaObject, error) {
	mo, ok := c.byToken[token]
	if !ok {
		return MetaObject{}, ErrNotFound
	}
	return mo, nil
}

// Len reports how many tokens have been received.
func (c *ReceiveCache) Len() int {
	return len(c.byToken)
}
