package scanner

// MockLister serves a fixed in-memory descriptor set regardless of the root.
// It backs the scanner.use_mock_files config toggle so the daemon and tests
// can exercise the full reconciliation path without touching the filesystem.
type MockLister struct {
	Files []FileDescriptor
}

// NewMockLister returns a mock lister populated with a representative file set.
func NewMockLister() *MockLister {
	return &MockLister{
		Files: []FileDescriptor{
			{Name: "Grand Theft Auto V (2013) (v1.0.0) (EA).zip", Size: 100663296},
			{Name: "Hollow Knight (2017).7z", Size: 9961472},
			{Name: "Celeste (2018) (v1.4.0.0).zip", Size: 1258291200},
			{Name: "Factorio (2020) (v1.1.110).tar.xz", Size: 2097152000},
			{Name: "Valheim (2021) (v0.217.46) (EA).rar", Size: 1048576000},
		},
	}
}

// List returns a copy of the fixed descriptor set.
func (m *MockLister) List(string) ([]FileDescriptor, error) {
	out := make([]FileDescriptor, len(m.Files))
	copy(out, m.Files)
	return out, nil
}
