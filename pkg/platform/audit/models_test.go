package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuditEventCategory(t *testing.T) {
	assert.Equal(t, CategoryCompliance, EventDocumentAdmitted.Category())
	assert.Equal(t, CategorySecurity, EventDocumentSigningDenied.Category())
	assert.Equal(t, CategoryOperations, EventLimitPolicyReplaced.Category())
	assert.Equal(t, CategoryOperations, AuditEvent("unknown").Category())
}
