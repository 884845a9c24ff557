package services

import (
	"context"
	"errors"
	"sync"

	"ajo-pools/internal/apperrors"
	"ajo-pools/internal/logger"
	"ajo-pools/internal/models"
	"ajo-pools/internal/repository"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Names of the reads reported in VerifyResult.Errors
const (
	ReadChain        = "chain"
	ReadSOLBalance   = "solBalance"
	ReadDatabase     = "database"
	ReadTokenBalance = "tokenBalance"
)

// VerifyResult is the side-by-side view of a pool on chain and in the database.
// Discrepancies are reported, not resolved.
type VerifyResult struct {
	ExistsOnChain bool              `json:"existsOnChain"`
	SolBalance    *float64          `json:"solBalance"`
	PoolData      *models.Pool      `json:"poolData"`
	TokenBalance  *float64          `json:"tokenBalance,omitempty"`
	Errors        map[string]string `json:"errors,omitempty"`
}

// VerificationService reconciles on-chain and stored pool state
type VerificationService struct {
	repo  *repository.Repository
	chain ChainReader
}

// NewVerificationService creates a new VerificationService
func NewVerificationService(repo *repository.Repository, chain ChainReader) *VerificationService {
	return &VerificationService{repo: repo, chain: chain}
}

// VerifyPool runs the chain and database reads concurrently. A failed read
// leaves its field at the zero value and is reported in Errors; the call
// fails only when every attempted read failed.
func (s *VerificationService) VerifyPool(ctx context.Context, poolAddress, walletAddress string) (*VerifyResult, error) {
	if poolAddress == "" {
		return nil, apperrors.BadRequest("Missing pool address")
	}

	var (
		result   VerifyResult
		mu       sync.Mutex
		failures = map[string]error{}
		attempts = 0
		g        errgroup.Group
	)

	record := func(read string, err error) {
		mu.Lock()
		defer mu.Unlock()
		failures[read] = err
	}

	run := func(read string, fn func() error) {
		attempts++
		g.Go(func() error {
			if err := fn(); err != nil {
				record(read, err)
			}
			return nil
		})
	}

	run(ReadChain, func() error {
		exists, err := s.chain.AccountExists(ctx, poolAddress)
		if err != nil {
			return err
		}
		result.ExistsOnChain = exists
		return nil
	})

	if walletAddress != "" {
		run(ReadSOLBalance, func() error {
			balance, err := s.chain.GetSOLBalance(ctx, walletAddress)
			if err != nil {
				return err
			}
			value := balance.InexactFloat64()
			result.SolBalance = &value
			return nil
		})
	}

	run(ReadDatabase, func() error {
		pool, err := s.repo.GetPoolByAddress(ctx, poolAddress)
		if repository.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		result.PoolData = pool
		return nil
	})

	_ = g.Wait()

	if result.PoolData != nil && walletAddress != "" && !result.PoolData.UsesNativeToken() {
		attempts++
		balance, err := s.chain.GetTokenAccountBalance(ctx, walletAddress, result.PoolData.ContributionToken)
		if err != nil {
			record(ReadTokenBalance, err)
		} else {
			value := balance.InexactFloat64()
			result.TokenBalance = &value
		}
	}

	if len(failures) == 0 {
		return &result, nil
	}

	result.Errors = make(map[string]string, len(failures))
	joined := make([]error, 0, len(failures))
	for read, err := range failures {
		result.Errors[read] = err.Error()
		joined = append(joined, err)
	}

	logger.Logger.WithFields(logrus.Fields{
		"pool_address": poolAddress,
		"errors":       result.Errors,
	}).Warn("pool verification degraded")

	if len(failures) == attempts {
		return nil, apperrors.Upstream("Failed to verify pool", errors.Join(joined...))
	}
	return &result, nil
}
