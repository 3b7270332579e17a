package types

// Deployment is one row of the versionbit deployment table: a signalling
// bit plus the start/timeout/threshold/window parameters that govern when
// the bit's state transitions (spec.md §6 `D` record).
type Deployment struct {
	Bit       uint8
	StartTime uint32
	Timeout   uint32
	Threshold int32
	Window    int32
}

const deploymentEntrySize = 1 + 4 + 4 + 4 + 4 // 17 bytes

// DeploymentTable is the full `D` record: a count byte followed by that
// many 17-byte Deployment entries.
type DeploymentTable struct {
	Deployments []Deployment
}

// EncodeDeploymentTable writes the `D` record exactly as spec.md §6
// describes it: u8 count, then 17 bytes per entry.
func EncodeDeploymentTable(t *DeploymentTable) []byte {
	out := make([]byte, 1+len(t.Deployments)*deploymentEntrySize)
	out[0] = byte(len(t.Deployments))
	for i, d := range t.Deployments {
		off := 1 + i*deploymentEntrySize
		out[off] = d.Bit
		putUint32(out[off+1:off+5], d.StartTime)
		putUint32(out[off+5:off+9], d.Timeout)
		putUint32(out[off+9:off+13], uint32(d.Threshold))
		putUint32(out[off+13:off+17], uint32(d.Window))
	}
	return out
}

// DecodeDeploymentTable parses a `D` record. On any malformed input it
// returns an all-invalid (empty) table rather than an error: spec.md §7
// item 6 and §9's open question treat decoding failures, and any bit index
// beyond the declared count, as a no-op invalidation rather than a fault.
func DecodeDeploymentTable(data []byte) *DeploymentTable {
	if len(data) < 1 {
		return &DeploymentTable{}
	}
	count := int(data[0])
	need := 1 + count*deploymentEntrySize
	if len(data) < need {
		return &DeploymentTable{}
	}
	t := &DeploymentTable{Deployments: make([]Deployment, count)}
	for i := 0; i < count; i++ {
		off := 1 + i*deploymentEntrySize
		t.Deployments[i] = Deployment{
			Bit:       data[off],
			StartTime: getUint32(data[off+1 : off+5]),
			Timeout:   getUint32(data[off+5 : off+9]),
			Threshold: int32(getUint32(data[off+9 : off+13])),
			Window:    int32(getUint32(data[off+13 : off+17])),
		}
	}
	return t
}

// DeploymentState is the 1-byte signalling state cached per (bit, hash)
// under the `v` record.
type DeploymentState uint8

const (
	DeploymentDefined DeploymentState = iota
	DeploymentStarted
	DeploymentLockedIn
	DeploymentActive
	DeploymentFailed
)

// deployStateKey identifies one cached (bit, blockHash) entry in the
// in-memory StateCache.
type deployStateKey struct {
	Bit  uint8
	Hash Hash
}

// StateCache is the in-memory versionbit cache: committed entries plus the
// updates a batch accumulates and flushes at commit (spec.md §3, §4.G
// step 5).
type StateCache struct {
	committed map[deployStateKey]DeploymentState
	staged    map[deployStateKey]DeploymentState
}

// NewStateCache returns an empty cache.
func NewStateCache() *StateCache {
	return &StateCache{committed: make(map[deployStateKey]DeploymentState)}
}

// Start begins staging: subsequent Set calls are visible to Get within
// this batch but discarded on Drop.
func (c *StateCache) Start() {
	c.staged = make(map[deployStateKey]DeploymentState)
}

// Get returns the cached state for (bit, hash), preferring a staged value
// over the committed one.
func (c *StateCache) Get(bit uint8, hash Hash) (DeploymentState, bool) {
	k := deployStateKey{Bit: bit, Hash: hash}
	if c.staged != nil {
		if v, ok := c.staged[k]; ok {
			return v, true
		}
	}
	v, ok := c.committed[k]
	return v, ok
}

// Set stages a new (bit, hash) → state entry.
func (c *StateCache) Set(bit uint8, hash Hash, state DeploymentState) {
	if c.staged == nil {
		c.staged = make(map[deployStateKey]DeploymentState)
	}
	c.staged[deployStateKey{Bit: bit, Hash: hash}] = state
}

// Drop discards staged updates without promoting them.
func (c *StateCache) Drop() {
	c.staged = nil
}

// Commit promotes every staged update into the committed map and clears
// the stage, the last sub-step of the batch coordinator's commit sequence
// (spec.md §4.G step 5).
func (c *StateCache) Commit() {
	for k, v := range c.staged {
		c.committed[k] = v
	}
	c.staged = nil
}

// IsValid reports whether bit is a declared, in-range signalling bit for
// the given table. Out-of-range bits are treated as a no-op rather than an
// error, per spec.md §9's open question.
func (t *DeploymentTable) IsValid(bit uint8) bool {
	for _, d := range t.Deployments {
		if d.Bit == bit {
			return true
		}
	}
	return false
}
