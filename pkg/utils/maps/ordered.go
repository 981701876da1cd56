package maps

// Ordered is a key-value mapping remembering the insertion order of its keys.
//
// Setting an existing key replaces the value in place; the key keeps its
// original position. The zero value is ready to use.
// Not safe for concurrent use.
type Ordered[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

func NewOrdered[K comparable, V any]() *Ordered[K, V] {
	return &Ordered[K, V]{values: map[K]V{}}
}

func (m *Ordered[K, V]) Set(key K, value V) {
	if m.values == nil {
		m.values = map[K]V{}
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *Ordered[K, V]) Get(key K) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Delete removes key and its value. It reports whether the key was there.
func (m *Ordered[K, V]) Delete(key K) bool {
	if _, ok := m.values[key]; !ok {
		return false
	}
	delete(m.values, key)
	for nth, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:nth], m.keys[nth+1:]...)
			break
		}
	}
	return true
}

func (m *Ordered[K, V]) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order. The slice is a copy.
func (m *Ordered[K, V]) Keys() []K {
	keys := make([]K, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Values returns the values in insertion order of their keys.
func (m *Ordered[K, V]) Values() []V {
	values := make([]V, 0, len(m.keys))
	for _, k := range m.keys {
		values = append(values, m.values[k])
	}
	return values
}

// Iter iterates entries in insertion order.
//
//	for k, v := range m.Iter() { ... }
func (m *Ordered[K, V]) Iter() func(yield func(K, V) bool) {
	return func(yield func(K, V) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}
