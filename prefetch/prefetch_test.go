package prefetch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/the8472/platter-walk/extent"
	"github.com/the8472/platter-walk/mount"
)

type fakeAdvisor struct {
	calls []struct{ offset, length int64 }
}

func (f *fakeAdvisor) Advise(file *os.File, offset, length int64) error {
	f.calls = append(f.calls, struct{ offset, length int64 }{offset, length})
	return nil
}

// fakeDevice returns a path to a real, openable file standing in for a
// block device node, so tests can exercise Prefetcher.emit's
// os.OpenFile call without touching an actual /dev entry.
func fakeDevice(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "device0")
	require.NoError(t, os.WriteFile(p, nil, 0o644))
	return p
}

func TestInactiveWithoutMounts(t *testing.T) {
	p := New(nil)
	assert.False(t, p.Active())
	p.Run([]Candidate{{Path: "/a"}})
	assert.Equal(t, uint64(0), p.Outstanding())
}

func TestConsumedHitGrowsCap(t *testing.T) {
	p := New([]mount.Mount{{MountPoint: "/", DeviceSpec: fakeDevice(t), FSType: "ext4"}})
	require.True(t, p.Active())

	fake := &fakeAdvisor{}
	p.SetAdvisor(fake)

	candidates := []Candidate{
		{Path: "/data/a", Extents: []extent.Extent{{PhysicalOffset: 100, Length: 50}}},
	}
	p.Run(candidates)
	assert.Equal(t, uint64(50), p.Outstanding())

	p.Consumed("/data/a")
	assert.Equal(t, 1, p.Cap())
	assert.Equal(t, uint64(0), p.Outstanding())
	require.Len(t, fake.calls, 1)
	assert.Equal(t, int64(100), fake.calls[0].offset)
	assert.Equal(t, int64(50), fake.calls[0].length)
}

func TestConsumedMissResetsCap(t *testing.T) {
	p := New([]mount.Mount{{MountPoint: "/", DeviceSpec: fakeDevice(t), FSType: "ext4"}})
	p.SetAdvisor(&fakeAdvisor{})
	p.cap = 500

	p.Run([]Candidate{{Path: "/data/a", Extents: []extent.Extent{{PhysicalOffset: 0, Length: 10}}}})
	require.Equal(t, uint64(10), p.Outstanding())

	p.Consumed("/data/never-hinted")
	assert.Equal(t, capMin, p.Cap())
	assert.Equal(t, uint64(0), p.Outstanding())
}

func TestRunSkipsAlreadyPrefetched(t *testing.T) {
	p := New([]mount.Mount{{MountPoint: "/", DeviceSpec: fakeDevice(t), FSType: "ext4"}})
	fake := &fakeAdvisor{}
	p.SetAdvisor(fake)

	c := Candidate{Path: "/data/a", Extents: []extent.Extent{{PhysicalOffset: 0, Length: 10}}}
	p.Run([]Candidate{c})
	p.Run([]Candidate{c})

	assert.Equal(t, uint64(10), p.Outstanding())
}

func TestMostSpecificMountPrefersLongestAndFSType(t *testing.T) {
	mounts := []mount.Mount{
		{MountPoint: "/", DeviceSpec: "/dev/sda1", FSType: "ext4"},
		{MountPoint: "/mnt/data", DeviceSpec: "/dev/sdb1", FSType: "ext4"},
		{MountPoint: "/mnt/data/tmp", DeviceSpec: "tmpfs0", FSType: "tmpfs"},
	}

	m, ok := mostSpecificMount(mounts, "/mnt/data/tmp/file", hintableFSTypes)
	require.True(t, ok)
	assert.Equal(t, "/dev/sdb1", m.DeviceSpec)
}

func TestCoalescesAdjacentExtentsIntoOneAdvisory(t *testing.T) {
	p := New([]mount.Mount{{MountPoint: "/", DeviceSpec: fakeDevice(t), FSType: "ext4"}})
	fake := &fakeAdvisor{}
	p.SetAdvisor(fake)

	p.Run([]Candidate{
		{Path: "/a", Extents: []extent.Extent{{PhysicalOffset: 0, Length: 100}, {PhysicalOffset: 100, Length: 50}}},
	})

	require.Len(t, fake.calls, 1)
	assert.Equal(t, int64(0), fake.calls[0].offset)
	assert.Equal(t, int64(150), fake.calls[0].length)
}

func TestHysteresisSkipsBelowHalfBudget(t *testing.T) {
	p := New([]mount.Mount{{MountPoint: "/", DeviceSpec: fakeDevice(t), FSType: "ext4"}})
	fake := &fakeAdvisor{}
	p.SetAdvisor(fake)
	p.prefetched["/already"] = Limit - Limit/2 + 1 // remaining just under LIMIT/2

	p.Run([]Candidate{{Path: "/new", Extents: []extent.Extent{{PhysicalOffset: 0, Length: 10}}}})

	assert.Empty(t, fake.calls)
	_, tracked := p.prefetched["/new"]
	assert.False(t, tracked)
}
