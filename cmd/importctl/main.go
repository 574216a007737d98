// importctl runs the contract import pipeline from the command line,
// without going through the web API. Useful for seeding a fresh database
// from the historical spreadsheet.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/divisaodecontratos2-code/v0-contratos-uenp/config"
	"github.com/divisaodecontratos2-code/v0-contratos-uenp/importer"
	"github.com/divisaodecontratos2-code/v0-contratos-uenp/model"
	"github.com/divisaodecontratos2-code/v0-contratos-uenp/pkg/logger"
	"github.com/divisaodecontratos2-code/v0-contratos-uenp/service"
)

var (
	cfgFile string
	apply   bool
)

var rootCmd = &cobra.Command{
	Use:   "importctl",
	Short: "Importa contratos a partir de planilhas CSV",
	Long: `importctl executa o mesmo pipeline de importação do servidor web
sobre um arquivo local ou uma URL. Por padrão roda em modo de simulação
(dry-run); use --apply para gravar no banco de dados.`,
}

var fileCmd = &cobra.Command{
	Use:   "file <caminho>",
	Short: "Importa um arquivo CSV/TXT local",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("falha ao ler %s: %w", args[0], err)
		}
		return runImport(cmd.Context(), importer.DecodeText(data))
	},
}

var urlCmd = &cobra.Command{
	Use:   "url <endereço>",
	Short: "Importa uma planilha publicada como CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fetcher := service.NewCSVFetcher(
			time.Duration(cfg.Import.FetchTimeoutSeconds)*time.Second,
			cfg.Import.MaxFetchMB*1024*1024,
		)

		text, err := fetcher.Fetch(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("falha ao buscar %s: %w", args[0], err)
		}
		return runImport(cmd.Context(), text)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "arquivo de configuração")
	rootCmd.PersistentFlags().BoolVar(&apply, "apply", false, "grava no banco de dados (padrão: simulação)")
	rootCmd.AddCommand(fileCmd)
	rootCmd.AddCommand(urlCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar configuração: %w", err)
	}
	logger.Init(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	return cfg, nil
}

func runImport(ctx context.Context, text string) error {
	var store importer.ContractStore = &dryRunStore{}

	if apply {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		pg, err := service.NewContractStore(ctx, cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("falha ao conectar ao banco: %w", err)
		}
		defer pg.Close()
		store = pg
	}

	report := importer.New(store).Import(ctx, text)

	fmt.Println(report.Message)
	for _, e := range report.Errors {
		fmt.Println("  -", e)
	}

	if !report.Success {
		return fmt.Errorf("importação rejeitada")
	}
	if !apply {
		fmt.Println("(simulação: nada foi gravado; use --apply para persistir)")
	}
	return nil
}

// dryRunStore satisfies the persistence boundary without writing anywhere.
type dryRunStore struct{}

func (*dryRunStore) UpsertBatch(_ context.Context, contratos []*model.Contrato) error {
	for _, c := range contratos {
		fmt.Printf("  %s  %-40.40s  %s a %s  %s\n",
			c.NumeroContrato, c.Objeto, c.DataInicioVigencia, c.DataFimVigencia, c.Situacao)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Erro:", err)
		os.Exit(1)
	}
}
