package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/divisaodecontratos2-code/v0-contratos-uenp/model"
)

// ContractStore persists contract records in PostgreSQL, keyed on the
// numero_contrato natural key.
type ContractStore struct {
	pool *pgxpool.Pool
}

func NewContractStore(ctx context.Context, dsn string) (*ContractStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	return &ContractStore{pool: pool}, nil
}

func (s *ContractStore) Close() {
	s.pool.Close()
}

const upsertContract = `
INSERT INTO contracts (
	numero_contrato, numero_processo, objeto, contratado, cnpj_cpf,
	valor_inicial, valor_atual, data_assinatura, data_inicio_vigencia,
	data_fim_vigencia, prazo_meses, prorrogavel, situacao,
	gestor_nome, gestor_email, gestor_telefone,
	fiscal_nome, fiscal_email, fiscal_telefone, observacoes
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
ON CONFLICT (numero_contrato) DO UPDATE SET
	numero_processo      = EXCLUDED.numero_processo,
	objeto               = EXCLUDED.objeto,
	contratado           = EXCLUDED.contratado,
	cnpj_cpf             = EXCLUDED.cnpj_cpf,
	valor_inicial        = EXCLUDED.valor_inicial,
	valor_atual          = EXCLUDED.valor_atual,
	data_assinatura      = EXCLUDED.data_assinatura,
	data_inicio_vigencia = EXCLUDED.data_inicio_vigencia,
	data_fim_vigencia    = EXCLUDED.data_fim_vigencia,
	prazo_meses          = EXCLUDED.prazo_meses,
	prorrogavel          = EXCLUDED.prorrogavel,
	situacao             = EXCLUDED.situacao,
	gestor_nome          = EXCLUDED.gestor_nome,
	gestor_email         = EXCLUDED.gestor_email,
	gestor_telefone      = EXCLUDED.gestor_telefone,
	fiscal_nome          = EXCLUDED.fiscal_nome,
	fiscal_email         = EXCLUDED.fiscal_email,
	fiscal_telefone      = EXCLUDED.fiscal_telefone,
	observacoes          = EXCLUDED.observacoes,
	updated_at           = now()`

// UpsertBatch writes the whole batch inside one transaction; either every
// record lands or none does.
func (s *ContractStore) UpsertBatch(ctx context.Context, contratos []*model.Contrato) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range contratos {
		_, err := tx.Exec(ctx, upsertContract,
			c.NumeroContrato, c.NumeroProcesso, c.Objeto, c.Contratado, c.CnpjCpf,
			c.ValorInicial, c.ValorAtual, c.DataAssinatura, c.DataInicioVigencia,
			c.DataFimVigencia, c.PrazoMeses, c.Prorrogavel, c.Situacao,
			c.GestorNome, c.GestorEmail, c.GestorTelefone,
			c.FiscalNome, c.FiscalEmail, c.FiscalTelefone, nullIfEmpty(c.Observacoes),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert contract %s: %w", c.NumeroContrato, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

const selectContract = `
SELECT numero_contrato, numero_processo, objeto, contratado, cnpj_cpf,
	valor_inicial, valor_atual, data_assinatura, data_inicio_vigencia,
	data_fim_vigencia, prazo_meses, prorrogavel, situacao,
	gestor_nome, gestor_email, gestor_telefone,
	fiscal_nome, fiscal_email, fiscal_telefone, COALESCE(observacoes, '')
FROM contracts`

// List returns every contract ordered by contract number.
func (s *ContractStore) List(ctx context.Context) ([]*model.Contrato, error) {
	rows, err := s.pool.Query(ctx, selectContract+" ORDER BY numero_contrato")
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer rows.Close()

	var out []*model.Contrato
	for rows.Next() {
		c, err := scanContrato(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetByNumero returns the contract with the given natural key, or nil when
// none exists.
func (s *ContractStore) GetByNumero(ctx context.Context, numero string) (*model.Contrato, error) {
	rows, err := s.pool.Query(ctx, selectContract+" WHERE numero_contrato = $1", numero)
	if err != nil {
		return nil, fmt.Errorf("failed to query contract: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return scanContrato(rows)
}

// Count returns the number of stored contracts.
func (s *ContractStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM contracts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count contracts: %w", err)
	}
	return n, nil
}

func scanContrato(rows pgx.Rows) (*model.Contrato, error) {
	var c model.Contrato
	err := rows.Scan(
		&c.NumeroContrato, &c.NumeroProcesso, &c.Objeto, &c.Contratado, &c.CnpjCpf,
		&c.ValorInicial, &c.ValorAtual, &c.DataAssinatura, &c.DataInicioVigencia,
		&c.DataFimVigencia, &c.PrazoMeses, &c.Prorrogavel, &c.Situacao,
		&c.GestorNome, &c.GestorEmail, &c.GestorTelefone,
		&c.FiscalNome, &c.FiscalEmail, &c.FiscalTelefone, &c.Observacoes,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan contract: %w", err)
	}
	return &c, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
