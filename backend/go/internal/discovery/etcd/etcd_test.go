package etcd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceKey(t *testing.T) {
	assert.Equal(t, "/services/nef_service/10.0.0.5:8080", ServiceKey("nef_service", "10.0.0.5:8080"))
}
