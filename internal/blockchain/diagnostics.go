package blockchain

import (
	"context"
	"time"

	"ajo-pools/internal/logger"

	"github.com/gagliardetto/solana-go/rpc"
)

// DiagnosticResult holds the result of a Solana connectivity diagnostic
type DiagnosticResult struct {
	RPCConnected    bool   `json:"rpc_connected"`
	RPCURL          string `json:"rpc_url"`
	Network         string `json:"network"`
	RPCError        string `json:"rpc_error,omitempty"`
	LatestBlockhash string `json:"latest_blockhash,omitempty"`
	Slot            uint64 `json:"slot,omitempty"`
	Timestamp       string `json:"timestamp"`
}

// RunDiagnostics checks Solana RPC connectivity
func (s *SolanaClient) RunDiagnostics(ctx context.Context) *DiagnosticResult {
	result := &DiagnosticResult{
		Timestamp: time.Now().Format(time.RFC3339),
		RPCURL:    s.rpcURL,
		Network:   s.network,
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	blockhash, err := s.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		result.RPCError = err.Error()
		logger.Logger.WithError(err).Warn("Solana RPC diagnostics failed")
		return result
	}

	result.RPCConnected = true
	result.LatestBlockhash = blockhash.Value.Blockhash.String()
	result.Slot = blockhash.Context.Slot
	return result
}
