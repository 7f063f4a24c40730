package guigl

// minArenaCapacity is the smallest capacity a BufferArena reserves.
const minArenaCapacity = 1024

// BufferArena tracks the capacity of a scratch buffer reused across frames.
// Capacity grows geometrically to fit the largest request seen and never
// shrinks, so steady-state frames reallocate nothing.
type BufferArena struct {
	capacity int
	grows    int
}

// Reserve makes room for n elements. It returns the capacity to allocate
// and whether the backing storage must be reallocated.
func (a *BufferArena) Reserve(n int) (capacity int, grew bool) {
	if n <= a.capacity {
		return a.capacity, false
	}
	c := max(a.capacity, minArenaCapacity)
	for c < n {
		c *= 2
	}
	a.capacity = c
	a.grows++
	return c, true
}

// Capacity returns the current capacity in elements.
func (a *BufferArena) Capacity() int { return a.capacity }

// Grows returns how many times the arena has been reallocated.
func (a *BufferArena) Grows() int { return a.grows }

// GrowSlice returns s resliced to length n, reallocating through the arena
// when its capacity is too small. Existing contents are not preserved.
func GrowSlice[T any](a *BufferArena, s []T, n int) []T {
	c, grew := a.Reserve(n)
	if grew || cap(s) < n {
		s = make([]T, n, c)
	}
	return s[:n]
}
