package participant

import "github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"

// MeteringPointType is a kind of metering point an actor may handle within a grid area
type MeteringPointType string

const (
	MeteringPointTypeVeProduction             MeteringPointType = "D01VeProduction"
	MeteringPointTypeAnalysis                 MeteringPointType = "D02Analysis"
	MeteringPointTypeSurplusProductionGroup6  MeteringPointType = "D04SurplusProductionGroup6"
	MeteringPointTypeNetProduction            MeteringPointType = "D05NetProduction"
	MeteringPointTypeSupplyToGrid             MeteringPointType = "D06SupplyToGrid"
	MeteringPointTypeConsumptionFromGrid      MeteringPointType = "D07ConsumptionFromGrid"
	MeteringPointTypeWholeSaleServicesInfo    MeteringPointType = "D08WholeSaleServicesInformation"
	MeteringPointTypeOwnProduction            MeteringPointType = "D09OwnProduction"
	MeteringPointTypeNetFromGrid              MeteringPointType = "D10NetFromGrid"
	MeteringPointTypeNetToGrid                MeteringPointType = "D11NetToGrid"
	MeteringPointTypeTotalConsumption         MeteringPointType = "D12TotalConsumption"
	MeteringPointTypeNetLossCorrection        MeteringPointType = "D13NetLossCorrection"
	MeteringPointTypeElectricalHeating        MeteringPointType = "D14ElectricalHeating"
	MeteringPointTypeNetConsumption           MeteringPointType = "D15NetConsumption"
	MeteringPointTypeOtherConsumption         MeteringPointType = "D17OtherConsumption"
	MeteringPointTypeOtherProduction          MeteringPointType = "D18OtherProduction"
	MeteringPointTypeCapacitySettlement       MeteringPointType = "D19CapacitySettlement"
	MeteringPointTypeExchangeReactiveEnergy   MeteringPointType = "D20ExchangeReactiveEnergy"
	MeteringPointTypeCollectiveNetProduction  MeteringPointType = "D21CollectiveNetProduction"
	MeteringPointTypeCollectiveNetConsumption MeteringPointType = "D22CollectiveNetConsumption"
	MeteringPointTypeInternalUse              MeteringPointType = "D99InternalUse"
	MeteringPointTypeConsumption              MeteringPointType = "E17Consumption"
	MeteringPointTypeProduction               MeteringPointType = "E18Production"
	MeteringPointTypeExchange                 MeteringPointType = "E20Exchange"
)

var validMeteringPointTypes = map[MeteringPointType]struct{}{
	MeteringPointTypeVeProduction:             {},
	MeteringPointTypeAnalysis:                 {},
	MeteringPointTypeSurplusProductionGroup6:  {},
	MeteringPointTypeNetProduction:            {},
	MeteringPointTypeSupplyToGrid:             {},
	MeteringPointTypeConsumptionFromGrid:      {},
	MeteringPointTypeWholeSaleServicesInfo:    {},
	MeteringPointTypeOwnProduction:            {},
	MeteringPointTypeNetFromGrid:              {},
	MeteringPointTypeNetToGrid:                {},
	MeteringPointTypeTotalConsumption:         {},
	MeteringPointTypeNetLossCorrection:        {},
	MeteringPointTypeElectricalHeating:        {},
	MeteringPointTypeNetConsumption:           {},
	MeteringPointTypeOtherConsumption:         {},
	MeteringPointTypeOtherProduction:          {},
	MeteringPointTypeCapacitySettlement:       {},
	MeteringPointTypeExchangeReactiveEnergy:   {},
	MeteringPointTypeCollectiveNetProduction:  {},
	MeteringPointTypeCollectiveNetConsumption: {},
	MeteringPointTypeInternalUse:              {},
	MeteringPointTypeConsumption:              {},
	MeteringPointTypeProduction:               {},
	MeteringPointTypeExchange:                 {},
}

// IsValid reports whether t is a known metering point type
func (t MeteringPointType) IsValid() bool {
	_, ok := validMeteringPointTypes[t]
	return ok
}

// ParseMeteringPointType validates a metering point type name
func ParseMeteringPointType(value string) (MeteringPointType, error) {
	t := MeteringPointType(value)
	if !t.IsValid() {
		return "", shared.NewDomainErrorf(CodeInvalidMeteringPointType, "Unknown metering point type %q", value)
	}
	return t, nil
}
