package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/safe-replay/internal/adapters/abi"
	"github.com/trebuchet-org/safe-replay/internal/adapters/deployments"
	"github.com/trebuchet-org/safe-replay/internal/adapters/interactive"
	"github.com/trebuchet-org/safe-replay/internal/adapters/safe"
	"github.com/trebuchet-org/safe-replay/internal/usecase"
)

// DeploymentsSet provides the canonical Safe deployment registry
var DeploymentsSet = wire.NewSet(
	deployments.NewRegistry,
	wire.Bind(new(usecase.DeploymentRegistry), new(*deployments.Registry)),
)

// ABISet provides calldata decoding and encoding
var ABISet = wire.NewSet(
	abi.NewCalldataClassifier,
	wire.Bind(new(usecase.CalldataClassifier), new(*abi.CalldataClassifier)),
	wire.Bind(new(usecase.CalldataEncoder), new(*abi.CalldataClassifier)),
	wire.Bind(new(interactive.MethodNamer), new(*abi.CalldataClassifier)),
)

// SafeServiceSet provides the Transaction Service client
var SafeServiceSet = wire.NewSet(
	safe.NewClientAdapter,
	wire.Bind(new(usecase.SafeService), new(*safe.ClientAdapter)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.InteractiveSelector), new(*interactive.SelectorAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	DeploymentsSet,
	ABISet,
	SafeServiceSet,
	InteractiveSet,
)
