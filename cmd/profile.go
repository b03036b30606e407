package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tend/internal/cli"
)

var (
	flagProfileName   string
	flagProfileBirth  string
	flagProfileHeight float64
	flagProfileWeight float64
	flagProfileGoals  []string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your profile",
	RunE:  runProfileShow,
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields",
	RunE:  runProfileSet,
}

func init() {
	profileSetCmd.Flags().StringVar(&flagProfileName, "name", "", "Display name")
	profileSetCmd.Flags().StringVar(&flagProfileBirth, "birth", "", "Birth date as YYYY-MM-DD")
	profileSetCmd.Flags().Float64Var(&flagProfileHeight, "height", 0, "Height in cm")
	profileSetCmd.Flags().Float64Var(&flagProfileWeight, "weight", 0, "Weight in kg")
	profileSetCmd.Flags().StringSliceVar(&flagProfileGoals, "goal", nil, "Personal goal (repeatable, replaces the list)")

	profileCmd.AddCommand(profileSetCmd)
	rootCmd.AddCommand(profileCmd)
}

func runProfileShow(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	p := s.st.Profile()
	name := p.Name
	if name == "" {
		name = cli.RenderMuted("(not set)")
	}
	pairs := [][2]string{{"Name", name}}
	if p.BirthDate != "" {
		pairs = append(pairs, [2]string{"Born", p.BirthDate})
	}
	if p.HeightCm > 0 {
		pairs = append(pairs, [2]string{"Height", fmt.Sprintf("%.0f cm", p.HeightCm)})
	}
	if p.WeightKg > 0 {
		pairs = append(pairs, [2]string{"Weight", fmt.Sprintf("%.1f kg", p.WeightKg)})
	}
	if bmi := p.BMI(); bmi > 0 {
		pairs = append(pairs, [2]string{"BMI", fmt.Sprintf("%.1f", bmi)})
	}
	if len(p.Goals) > 0 {
		pairs = append(pairs, [2]string{"Goals", strings.Join(p.Goals, "; ")})
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("PROFILE"))
	fmt.Println()
	fmt.Println(cli.RenderKV(pairs))
	return nil
}

func runProfileSet(cmd *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	p := s.st.Profile()
	flags := cmd.Flags()
	if flags.Changed("name") {
		p.Name = flagProfileName
	}
	if flags.Changed("birth") {
		p.BirthDate = flagProfileBirth
	}
	if flags.Changed("height") {
		p.HeightCm = flagProfileHeight
	}
	if flags.Changed("weight") {
		p.WeightKg = flagProfileWeight
	}
	if flags.Changed("goal") {
		p.Goals = flagProfileGoals
	}
	if err := s.st.UpdateProfile(p); err != nil {
		return err
	}
	fmt.Println("  Profile saved.")
	return nil
}
