package participant

import "github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"

// EicFunction is the market role function an actor performs
type EicFunction string

const (
	EicFunctionBalanceResponsibleParty        EicFunction = "BalanceResponsibleParty"
	EicFunctionBillingAgent                   EicFunction = "BillingAgent"
	EicFunctionEnergySupplier                 EicFunction = "EnergySupplier"
	EicFunctionGridAccessProvider             EicFunction = "GridAccessProvider"
	EicFunctionImbalanceSettlementResponsible EicFunction = "ImbalanceSettlementResponsible"
	EicFunctionMeterOperator                  EicFunction = "MeterOperator"
	EicFunctionMeteredDataAdministrator       EicFunction = "MeteredDataAdministrator"
	EicFunctionMeteredDataResponsible         EicFunction = "MeteredDataResponsible"
	EicFunctionMeteringPointAdministrator     EicFunction = "MeteringPointAdministrator"
	EicFunctionSystemOperator                 EicFunction = "SystemOperator"
	EicFunctionDanishEnergyAgency             EicFunction = "DanishEnergyAgency"
	EicFunctionDataHubAdministrator           EicFunction = "DataHubAdministrator"
	EicFunctionIndependentAggregator          EicFunction = "IndependentAggregator"
	EicFunctionSerialEnergyTrader             EicFunction = "SerialEnergyTrader"
	EicFunctionDelegated                      EicFunction = "Delegated"
	EicFunctionItSupplier                     EicFunction = "ItSupplier"
)

// ConsolidatableFunction is the only function whose grid areas can be consolidated between actors
const ConsolidatableFunction = EicFunctionGridAccessProvider

var validEicFunctions = map[EicFunction]struct{}{
	EicFunctionBalanceResponsibleParty:        {},
	EicFunctionBillingAgent:                   {},
	EicFunctionEnergySupplier:                 {},
	EicFunctionGridAccessProvider:             {},
	EicFunctionImbalanceSettlementResponsible: {},
	EicFunctionMeterOperator:                  {},
	EicFunctionMeteredDataAdministrator:       {},
	EicFunctionMeteredDataResponsible:         {},
	EicFunctionMeteringPointAdministrator:     {},
	EicFunctionSystemOperator:                 {},
	EicFunctionDanishEnergyAgency:             {},
	EicFunctionDataHubAdministrator:           {},
	EicFunctionIndependentAggregator:          {},
	EicFunctionSerialEnergyTrader:             {},
	EicFunctionDelegated:                      {},
	EicFunctionItSupplier:                     {},
}

// IsValid reports whether f is a known function
func (f EicFunction) IsValid() bool {
	_, ok := validEicFunctions[f]
	return ok
}

// ParseEicFunction validates a function name
func ParseEicFunction(value string) (EicFunction, error) {
	f := EicFunction(value)
	if !f.IsValid() {
		return "", shared.NewDomainErrorf(CodeInvalidEicFunction, "Unknown market role function %q", value)
	}
	return f, nil
}
