//go:generate mockgen -source=../order_repository.go    -destination=./mock_order_repository.go    -package=mocks
//go:generate mockgen -source=../customer_repository.go -destination=./mock_customer_repository.go -package=mocks
//go:generate mockgen -source=../product_repository.go  -destination=./mock_product_repository.go  -package=mocks
//go:generate mockgen -source=../product_cache.go       -destination=./mock_product_cache.go       -package=mocks
//go:generate mockgen -source=../product_catalog.go     -destination=./mock_product_catalog.go     -package=mocks
//go:generate mockgen -source=../product_validator.go   -destination=./mock_product_validator.go   -package=mocks
//go:generate mockgen -source=../order_service.go       -destination=./mock_order_service.go       -package=mocks
//go:generate mockgen -source=../identity.go            -destination=./mock_identity.go            -package=mocks

package mocks
