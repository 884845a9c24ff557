package blockchain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ajo-pools/internal/config"
	"ajo-pools/internal/logger"
	"ajo-pools/internal/metrics"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"
)

const lamportsPerSOL = 1_000_000_000

// SolanaClient performs read-only Solana RPC calls
type SolanaClient struct {
	rpcClient *rpc.Client
	rpcURL    string
	network   string
	timeout   time.Duration
}

// RPCURL resolves the configured endpoint, falling back to the public
// cluster endpoint of the network.
func RPCURL(cfg config.SolanaConfig) string {
	if cfg.RPCURL != "" {
		return cfg.RPCURL
	}

	switch cfg.Network {
	case "mainnet-beta":
		return rpc.MainNetBeta_RPC
	case "testnet":
		return rpc.TestNet_RPC
	case "localnet":
		return rpc.LocalNet_RPC
	default:
		return rpc.DevNet_RPC
	}
}

// NewSolanaClient creates a new Solana client
func NewSolanaClient(cfg config.SolanaConfig) *SolanaClient {
	rpcURL := RPCURL(cfg)

	timeout := cfg.RPCTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	logger.Logger.WithField("rpc_url", rpcURL).Info("Solana RPC client configured")

	return &SolanaClient{
		rpcClient: rpc.New(rpcURL),
		rpcURL:    rpcURL,
		network:   cfg.Network,
		timeout:   timeout,
	}
}

func (s *SolanaClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// ValidateAddress reports whether address is a base58 public key
func ValidateAddress(address string) bool {
	_, err := solana.PublicKeyFromBase58(address)
	return err == nil
}

// AccountExists reports whether an account is allocated at address
func (s *SolanaClient) AccountExists(ctx context.Context, address string) (exists bool, err error) {
	defer func() { metrics.RecordChainRead("account_exists", err) }()

	pubKey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return false, fmt.Errorf("invalid account address: %w", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	info, err := s.rpcClient.GetAccountInfoWithOpts(ctx, pubKey, &rpc.GetAccountInfoOpts{
		Commitment: rpc.CommitmentConfirmed,
	})
	if errors.Is(err, rpc.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get account info: %w", err)
	}

	return info != nil && info.Value != nil, nil
}

// GetSOLBalance gets the SOL balance for a wallet
func (s *SolanaClient) GetSOLBalance(ctx context.Context, walletAddress string) (balance decimal.Decimal, err error) {
	defer func() { metrics.RecordChainRead("sol_balance", err) }()

	pubKey, err := solana.PublicKeyFromBase58(walletAddress)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid wallet address: %w", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.rpcClient.GetBalance(ctx, pubKey, rpc.CommitmentConfirmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get balance: %w", err)
	}

	// Convert lamports to SOL
	return LamportsToSOL(resp.Value), nil
}

// LamportsToSOL converts a lamport amount to SOL
func LamportsToSOL(lamports uint64) decimal.Decimal {
	return decimal.NewFromUint64(lamports).Div(decimal.NewFromInt(lamportsPerSOL))
}

// GetTokenAccountBalance gets the UI balance of an SPL token held by owner,
// summed over every token account of that mint.
func (s *SolanaClient) GetTokenAccountBalance(ctx context.Context, ownerAddress, mintAddress string) (balance decimal.Decimal, err error) {
	defer func() { metrics.RecordChainRead("token_balance", err) }()

	owner, err := solana.PublicKeyFromBase58(ownerAddress)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid owner address: %w", err)
	}
	mint, err := solana.PublicKeyFromBase58(mintAddress)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid mint address: %w", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	decimals, err := s.mintDecimals(ctx, mint)
	if err != nil {
		return decimal.Zero, err
	}

	resp, err := s.rpcClient.GetTokenAccountsByOwner(
		ctx,
		owner,
		&rpc.GetTokenAccountsConfig{Mint: &mint},
		&rpc.GetTokenAccountsOpts{Encoding: solana.EncodingBase64},
	)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get token accounts: %w", err)
	}

	var total uint64
	for _, account := range resp.Value {
		var tokenAccount token.Account
		if err := tokenAccount.UnmarshalWithDecoder(bin.NewBinDecoder(account.Account.Data.GetBinary())); err != nil {
			logger.Logger.WithError(err).WithField("account", account.Pubkey.String()).Warn("failed to decode token account data")
			continue
		}
		total += tokenAccount.Amount
	}

	return decimal.NewFromUint64(total).Shift(-int32(decimals)), nil
}

func (s *SolanaClient) mintDecimals(ctx context.Context, mint solana.PublicKey) (uint8, error) {
	info, err := s.rpcClient.GetAccountInfoWithOpts(ctx, mint, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: rpc.CommitmentConfirmed,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get mint account: %w", err)
	}

	var mintAccount token.Mint
	if err := mintAccount.UnmarshalWithDecoder(bin.NewBinDecoder(info.GetBinary())); err != nil {
		return 0, fmt.Errorf("failed to decode mint account: %w", err)
	}
	return mintAccount.Decimals, nil
}

// IsSignatureConfirmed reports whether the transaction reached confirmed or
// finalized commitment without an execution error.
func (s *SolanaClient) IsSignatureConfirmed(ctx context.Context, signature string) (confirmed bool, err error) {
	defer func() { metrics.RecordChainRead("signature_status", err) }()

	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return false, fmt.Errorf("invalid signature: %w", err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	status, err := s.rpcClient.GetSignatureStatuses(ctx, true, sig)
	if err != nil {
		return false, fmt.Errorf("failed to get signature status: %w", err)
	}

	if len(status.Value) == 0 || status.Value[0] == nil {
		return false, nil
	}

	if status.Value[0].Err != nil {
		logger.Logger.WithField("signature", signature).Warnf("transaction failed on chain: %v", status.Value[0].Err)
		return false, nil
	}

	conf := status.Value[0].ConfirmationStatus
	return conf == rpc.ConfirmationStatusConfirmed || conf == rpc.ConfirmationStatusFinalized, nil
}

// ValidateSignature reports whether signature is a base58 transaction signature
func ValidateSignature(signature string) bool {
	_, err := solana.SignatureFromBase58(signature)
	return err == nil
}
