package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ecospark/ewaste-server/internal/model"
)

// Starter fixtures so a fresh install has devices to credit and challenges
// to complete.
var (
	seedDevices = []model.Device{
		{ModelName: "iPhone 11", MetalValue: 1.5},
		{ModelName: "iPhone 8", MetalValue: 1.2},
		{ModelName: "Samsung Galaxy S10", MetalValue: 1.4},
		{ModelName: "Dell XPS 13", MetalValue: 4.0},
		{ModelName: "MacBook Air", MetalValue: 3.8},
		{ModelName: "LG 32 inch TV", MetalValue: 6.5},
	}

	seedChallenges = []model.Challenge{
		{Title: "Recycle 1 old phone", CO2Saved: 1.0, IsActive: true, Order: 1},
		{Title: "Donate a working laptop", CO2Saved: 2.5, IsActive: true, Order: 2},
		{Title: "Take dead batteries to a collection point", CO2Saved: 0.3, IsActive: true, Order: 3},
		{Title: "Repair instead of replace one device", CO2Saved: 1.8, IsActive: true, Order: 4},
		{Title: "Organize a community e-waste drive", CO2Saved: 5.0, IsActive: true, Order: 5},
	}

	seedCenters = []model.Center{
		{Name: "Green Cycle Hub", Address: "MP Nagar, Bhopal", Latitude: 23.2315, Longitude: 77.4323},
		{Name: "EcoBin Recyclers", Address: "New Market, Bhopal", Latitude: 23.2336, Longitude: 77.4004},
	}
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load starter devices, challenges and centers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := newStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return err
		}

		for _, d := range seedDevices {
			existing, err := st.GetDeviceByModel(ctx, d.ModelName)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}
			if _, err := st.CreateDevice(ctx, d); err != nil {
				return err
			}
		}

		challenges, err := st.ListActiveChallenges(ctx)
		if err != nil {
			return err
		}
		if len(challenges) == 0 {
			for _, c := range seedChallenges {
				if _, err := st.CreateChallenge(ctx, c); err != nil {
					return err
				}
			}
		}

		centers, err := st.ListCenters(ctx)
		if err != nil {
			return err
		}
		if len(centers) == 0 {
			for _, c := range seedCenters {
				if _, err := st.CreateCenter(ctx, c); err != nil {
					return err
				}
			}
		}

		zap.L().Info("seed complete",
			zap.Int("devices", len(seedDevices)),
			zap.Int("challenges", len(seedChallenges)),
			zap.Int("centers", len(seedCenters)),
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
