package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/throne-companions/internal/behavior"
	"github.com/PabloGalante/throne-companions/internal/companion"
	"github.com/PabloGalante/throne-companions/internal/solicitation"
	"github.com/PabloGalante/throne-companions/internal/tier"
)

func newTiersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tiers",
		Short: "Print the tier catalog and the mode requirement table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := tier.Validate(); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"tiers":        tier.All(),
				"requirements": tier.Requirements(),
			})
		},
	}
}

func newPromptCmd() *cobra.Command {
	var (
		tierName, comp string
		features       tier.Features
		systemOnly     bool
	)

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the behavior config assembled for a tier and companion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := behavior.Assemble(behavior.UserContext{
				Tier:            tier.Name(strings.ToLower(tierName)),
				ChosenCompanion: strings.ToLower(comp),
				Features:        features,
			})
			if systemOnly {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), cfg.SystemPrompt)
				return err
			}
			return printJSON(cmd.OutOrStdout(), cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&tierName, "tier", "t", string(tier.Default), "Tier name")
	f.StringVar(&comp, "companion", companion.Default, "Companion ID")
	f.BoolVar(&features.Voice, "voice", false, "Enable the voice feature")
	f.BoolVar(&features.Visuals, "visuals", false, "Enable the visuals feature")
	f.BoolVar(&features.FinanceTools, "finance", false, "Enable finance tools")
	f.BoolVar(&features.IntimacyModes, "intimacy", false, "Enable intimacy modes")
	f.BoolVar(&features.CustomPersona, "custom-persona", false, "Enable the persona customizer")
	f.BoolVar(&features.PrivateHosting, "private-hosting", false, "Enable private hosting")
	f.BoolVar(&systemOnly, "system-only", false, "Print only the system prompt")
	return cmd
}

func newSolicitCmd() *cobra.Command {
	var (
		persona, text, configPath string
		intent                    float64
	)

	cmd := &cobra.Command{
		Use:   "solicit",
		Short: "Check whether a message is vague and print the clarification payload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := solicitation.Load(configPath)
			if err != nil {
				return err
			}
			eng, err := solicitation.NewEngine(cfg)
			if err != nil {
				return err
			}

			var score *float64
			if cmd.Flags().Changed("intent") {
				score = &intent
			}

			verdict, err := eng.MaybeSolicit(text, score, strings.ToLower(persona))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), verdict)
		},
	}

	f := cmd.Flags()
	f.StringVar(&persona, "persona", companion.Default, "Companion persona")
	f.StringVar(&text, "text", "", "User message to inspect")
	f.Float64Var(&intent, "intent", 0, "Intent score in [0,1]; omitted means unknown")
	f.StringVarP(&configPath, "config", "c", "configs/solicitation.yaml", "Solicitation config file")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}
