package portmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/affreight/shipengine/pkg/domain"
)

func catalog() []domain.Port {
	return []domain.Port{
		{UNCode: "MYPKG", Name: "Port Kelang", Country: "MY"},
		{UNCode: "SGSIN", Name: "Singapore", Country: "SG"},
		{UNCode: "CNSHA", Name: "Shanghai", Country: "CN"},
	}
}

func TestMatch_AliasDictionary(t *testing.T) {
	assert.Equal(t, "MYPKG", Match("port kelang", catalog()))
	assert.Equal(t, "SGSIN", Match("  SINGAPORE ", catalog()))
}

func TestMatch_DirectUNCode(t *testing.T) {
	assert.Equal(t, "CNSHA", Match("CNSHA", catalog()))
}

func TestMatch_ExactName(t *testing.T) {
	ports := []domain.Port{{UNCode: "THLCH", Name: "Laem Chabang", Country: "TH"}}
	assert.Equal(t, "THLCH", Match("LAEM CHABANG", ports))
}

func TestMatch_Substring(t *testing.T) {
	ports := []domain.Port{{UNCode: "USLAX", Name: "Los Angeles", Country: "US"}}
	assert.Equal(t, "USLAX", Match("LOS ANGELES, CA", ports))
}

func TestMatch_NoMatch(t *testing.T) {
	assert.Equal(t, "", Match("NOWHERE SPECIAL", catalog()))
}

func TestMatch_EmptyLabel(t *testing.T) {
	assert.Equal(t, "", Match("", catalog()))
	assert.Equal(t, "", Match("   ", catalog()))
}
