package depm

// The warm lookup caches used during lowering.  They are populated after all
// units are created and linked but before statement lowering begins, and are
// read-only from then on.  Entries borrow from the units and struct infos
// they index: the caches must be cleared before any referent is disposed.

// bucketCount is the number of hash buckets in each cache.
const bucketCount = 256

// hashString is the djb2 string hash reduced to a bucket index.
func hashString(s string) uint32 {
	hash := uint32(5381)
	for i := 0; i < len(s); i++ {
		hash = ((hash << 5) + hash) + uint32(s[i])
	}

	return hash % bucketCount
}

// -----------------------------------------------------------------------------

type symbolEntry struct {
	key string
	sym *Symbol
}

// SymbolCache maps "module:symbol" keys to symbols.
type SymbolCache struct {
	buckets [bucketCount][]symbolEntry
}

// NewSymbolCache creates an empty symbol cache.
func NewSymbolCache() *SymbolCache {
	return &SymbolCache{}
}

// Put caches sym under the given module and symbol name, replacing any
// previous entry for the same key.
func (c *SymbolCache) Put(modName, symName string, sym *Symbol) {
	key := modName + ":" + symName
	bucket := hashString(key)

	for i, entry := range c.buckets[bucket] {
		if entry.key == key {
			c.buckets[bucket][i].sym = sym
			return
		}
	}

	c.buckets[bucket] = append(c.buckets[bucket], symbolEntry{key: key, sym: sym})
}

// Get returns the cached symbol for the module and symbol name, or nil.
func (c *SymbolCache) Get(modName, symName string) *Symbol {
	key := modName + ":" + symName

	for _, entry := range c.buckets[hashString(key)] {
		if entry.key == key {
			return entry.sym
		}
	}

	return nil
}

// Clear drops every entry.  Must be called before any cached unit is
// disposed.
func (c *SymbolCache) Clear() {
	for i := range c.buckets {
		c.buckets[i] = nil
	}
}

// -----------------------------------------------------------------------------

type structEntry struct {
	name string
	info *StructInfo
}

// StructCache maps struct names to struct infos.
type StructCache struct {
	buckets [bucketCount][]structEntry
}

// NewStructCache creates an empty struct cache.
func NewStructCache() *StructCache {
	return &StructCache{}
}

// Put caches info under name, replacing any previous entry.
func (c *StructCache) Put(name string, info *StructInfo) {
	bucket := hashString(name)

	for i, entry := range c.buckets[bucket] {
		if entry.name == name {
			c.buckets[bucket][i].info = info
			return
		}
	}

	c.buckets[bucket] = append(c.buckets[bucket], structEntry{name: name, info: info})
}

// Get returns the cached struct info for name, or nil.
func (c *StructCache) Get(name string) *StructInfo {
	for _, entry := range c.buckets[hashString(name)] {
		if entry.name == name {
			return entry.info
		}
	}

	return nil
}

// Clear drops every entry.
func (c *StructCache) Clear() {
	for i := range c.buckets {
		c.buckets[i] = nil
	}
}

// -----------------------------------------------------------------------------

// FieldCache is a best-effort reverse index from a field name to the first
// struct known to contain a field of that name.  It is a fast path taken
// before linear struct search; the first registration wins.
type FieldCache struct {
	buckets [bucketCount][]structEntry
}

// NewFieldCache creates an empty field cache.
func NewFieldCache() *FieldCache {
	return &FieldCache{}
}

// Put registers info as the owner of fieldName unless some struct already
// claimed it.
func (c *FieldCache) Put(fieldName string, info *StructInfo) {
	bucket := hashString(fieldName)

	for _, entry := range c.buckets[bucket] {
		if entry.name == fieldName {
			return
		}
	}

	c.buckets[bucket] = append(c.buckets[bucket], structEntry{name: fieldName, info: info})
}

// Get returns the first struct registered for fieldName, or nil.
func (c *FieldCache) Get(fieldName string) *StructInfo {
	for _, entry := range c.buckets[hashString(fieldName)] {
		if entry.name == fieldName {
			return entry.info
		}
	}

	return nil
}

// Clear drops every entry.
func (c *FieldCache) Clear() {
	for i := range c.buckets {
		c.buckets[i] = nil
	}
}
