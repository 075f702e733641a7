package participant

import (
	"regexp"
	"strings"

	"github.com/Energinet-DataHub/geh-actor-registry-sub000/internal/domain/shared"
)

// ActorNumberType distinguishes the two market identifier schemes
type ActorNumberType string

const (
	ActorNumberTypeGln ActorNumberType = "GLN"
	ActorNumberTypeEic ActorNumberType = "EIC"
)

var (
	glnPattern = regexp.MustCompile(`^[0-9]{13}$`)
	eicPattern = regexp.MustCompile(`^[0-9]{2}[A-Z][A-Z0-9-]{12}[A-Z0-9]$`)
)

// ActorNumber is the market-facing identifier of an actor: a GLN or an EIC
type ActorNumber struct {
	Value string
	Type  ActorNumberType
}

// NewActorNumber parses and classifies a GLN or EIC
func NewActorNumber(value string) (ActorNumber, error) {
	value = strings.ToUpper(strings.TrimSpace(value))
	switch {
	case glnPattern.MatchString(value):
		if !hasValidGlnCheckDigit(value) {
			return ActorNumber{}, shared.NewDomainErrorf(CodeInvalidActorNumber, "GLN %s has an invalid check digit", value)
		}
		return ActorNumber{Value: value, Type: ActorNumberTypeGln}, nil
	case eicPattern.MatchString(value):
		return ActorNumber{Value: value, Type: ActorNumberTypeEic}, nil
	default:
		return ActorNumber{}, shared.NewDomainErrorf(CodeInvalidActorNumber, "%q is neither a GLN nor an EIC", value)
	}
}

// MustActorNumber is NewActorNumber for known-good literals
func MustActorNumber(value string) ActorNumber {
	n, err := NewActorNumber(value)
	if err != nil {
		panic(err)
	}
	return n
}

func (n ActorNumber) String() string {
	return n.Value
}

// IsZero reports whether the number is unset
func (n ActorNumber) IsZero() bool {
	return n.Value == ""
}

// GS1 mod-10: weights 1,3,1,3... from the left over the first 12 digits.
func hasValidGlnCheckDigit(gln string) bool {
	sum := 0
	for i := 0; i < 12; i++ {
		d := int(gln[i] - '0')
		if i%2 == 1 {
			d *= 3
		}
		sum += d
	}
	check := (10 - sum%10) % 10
	return check == int(gln[12]-'0')
}
