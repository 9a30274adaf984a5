package repository_mocks

//go:generate mockgen -source=../interfaces.go -destination=repository_mocks.go -package=repository_mocks

// Mocks for the repository interfaces.
// To regenerate the mocks, run:
//   go generate ./internal/repositories/repository_mocks
