// Package mocks provides mock implementations of the store and publisher
// ports for testing purposes.
package mocks

//go:generate mockgen -destination=mock_interfaces.go -package=mocks github.com/sheikh-saqib/funds-transfer-core/internal/interfaces AccountStore,ContactRegistry,UserDirectory,EventPublisher
