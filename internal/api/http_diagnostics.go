package api

import (
	"errors"

	"avatarlab/internal/credential"
	"avatarlab/internal/entity"
	"avatarlab/internal/provider"

	"github.com/gin-gonic/gin"
)

// ProviderDiagnostics probes every vendor the caller has a key for, all at
// once. Vendors without a resolvable key are reported as not configured
// rather than failed.
func (h *HTTPHandler) ProviderDiagnostics(c *gin.Context) {
	user := CurrentUser(c)
	ctx := c.Request.Context()

	probes := make(map[string]provider.ProbeFunc)
	unconfigured := make([]provider.ProbeResult, 0)

	for _, serviceName := range entity.KnownServices {
		apiKey, _, err := h.resolver.Resolve(ctx, user.ID, serviceName)
		if err != nil {
			if errors.Is(err, credential.ErrCredentialMissing) {
				unconfigured = append(unconfigured, provider.ProbeResult{
					Service: serviceName,
					OK:      false,
					Error:   "no API key configured",
				})
				continue
			}
			FailErr(c, err)
			return
		}

		probe := probeForService(serviceName, apiKey)
		if probe == nil {
			// No cheap status endpoint; having a key is the best signal.
			unconfigured = append(unconfigured, provider.ProbeResult{
				Service: serviceName,
				OK:      true,
			})
			continue
		}
		probes[serviceName] = probe
	}

	results := provider.ProbeAll(ctx, probes)
	results = append(results, unconfigured...)
	OK(c, gin.H{"data": results})
}

func probeForService(serviceName, apiKey string) provider.ProbeFunc {
	switch serviceName {
	case entity.ServiceOpenAI:
		client, err := provider.NewOpenAIClient(apiKey)
		if err != nil {
			return nil
		}
		return client.Probe
	case entity.ServiceHeyGen:
		client, err := provider.NewHeyGenClient(apiKey)
		if err != nil {
			return nil
		}
		return client.Probe
	case entity.ServiceKie:
		client, err := provider.NewKieClient(apiKey)
		if err != nil {
			return nil
		}
		return client.Probe
	case entity.ServiceElevenLabs:
		client, err := provider.NewElevenLabsClient(apiKey)
		if err != nil {
			return nil
		}
		return client.Probe
	default:
		return nil
	}
}
